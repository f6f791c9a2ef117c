package display

import (
	"encoding/json"
	"io"

	"github.com/teranos/standoff/errors"
)

// WriteJSON writes v to w, indented for people and terminated by a newline
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write JSON")
	}
	return nil
}
