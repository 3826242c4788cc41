package gateway

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Wire decoding helpers. Each adapter decodes its gateway's native
// encoding into the flat shape the normalizer accepts; the normalizer
// itself never recurses into structure.

// DecodeDelimited splits a positional delimiter-separated response.
func DecodeDelimited(body, delim string) []string {
	return strings.Split(body, delim)
}

// DecodeNVP parses URL-encoded name/value pairs into a map with
// lowercased keys.
func DecodeNVP(body string) (map[string]string, error) {
	parsed, err := url.ParseQuery(strings.TrimSpace(body))
	if err != nil {
		return nil, NewProtocolError("response is not URL-encoded pairs", err)
	}
	values := make(map[string]string, len(parsed))
	for key, vals := range parsed {
		if len(vals) == 0 {
			continue
		}
		values[strings.ToLower(key)] = vals[0]
	}
	return values, nil
}

// FlattenXML decodes an XML element tree into a flat map of leaf element
// name to character data. Repeated leaf names keep the last value; the
// canonical vocabulary has no use for the duplicates gateways emit.
func FlattenXML(body []byte) (map[string]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	values := map[string]string{}

	var current string
	var text strings.Builder
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewProtocolError("response is not well-formed XML", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			current = t.Name.Local
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if t.Name.Local == current {
				if value := strings.TrimSpace(text.String()); value != "" {
					values[current] = value
				}
			}
			current = ""
			text.Reset()
		}
	}
	return values, nil
}

// DecodeJSON flattens a one-level JSON object, stringifying scalar values
// and dropping nested structure the canonical schema cannot carry.
func DecodeJSON(body []byte) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewProtocolError("response is not a JSON object", err)
	}

	values := make(map[string]string, len(raw))
	for key, v := range raw {
		switch value := v.(type) {
		case string:
			values[key] = value
		case bool:
			values[key] = fmt.Sprintf("%t", value)
		case float64:
			values[key] = formatJSONNumber(value)
		case nil:
			// absent
		}
	}
	return values, nil
}

func formatJSONNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
