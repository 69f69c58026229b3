package models

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cast"
)

// Number is a float that also decodes from JSON strings ("100", "2.5").
// Form inputs and older data files store prices and quantities as strings.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	// unparsable strings count as zero, like Number("abc") || 0
	*n = Number(cast.ToFloat64(v))
	return nil
}

func (n Number) Float() float64 {
	return float64(n)
}
