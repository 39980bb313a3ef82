package config

import "errors"

// mapProvider loads koanf values from a flat map keyed by dotted paths
type mapProvider map[string]interface{}

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]interface{}, error) {
	return m, nil
}
