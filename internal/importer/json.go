package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
)

// LoadFromFile loads building inputs from a JSON file.
// The unit defaults to metric when the file omits it.
func LoadFromFile(filepath string) (globalcheck.Inputs, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return globalcheck.Inputs{}, err
	}
	return ParseJSON(data)
}

// ParseJSON decodes and validates a JSON inputs document
func ParseJSON(data []byte) (globalcheck.Inputs, error) {
	var in globalcheck.Inputs
	if err := json.Unmarshal(data, &in); err != nil {
		return globalcheck.Inputs{}, fmt.Errorf("parsing inputs: %w", err)
	}
	if err := in.Validate(); err != nil {
		return globalcheck.Inputs{}, err
	}
	return in, nil
}
