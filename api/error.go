package api

import (
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/viant/mycoach/schema"
)

var messageKeys = []string{"error", "detail", "message"}

// responseError maps non 2xx response to *schema.Error; unauthorized overrides the 401 kind
func responseError(statusCode int, body []byte, unauthorized error) error {
	kind := schema.StatusKind(statusCode)
	if statusCode == http.StatusUnauthorized && unauthorized != nil {
		kind = unauthorized
	}
	ret := schema.NewError(kind, statusCode, message(body))
	if kind == schema.ErrValidation {
		ret.Fields = fieldErrors(body)
	}
	return ret
}

func message(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	root := gjson.ParseBytes(body)
	for _, key := range messageKeys {
		if value := root.Get(key); value.Type == gjson.String {
			return value.String()
		}
	}
	return ""
}

// fieldErrors extracts field messages either from "details" envelope or from a plain field map
func fieldErrors(body []byte) map[string][]string {
	if !gjson.ValidBytes(body) {
		return nil
	}
	root := gjson.ParseBytes(body)
	envelope := false
	if details := root.Get("details"); details.IsObject() {
		root = details
		envelope = true
	}
	if !root.IsObject() {
		return nil
	}
	fields := map[string][]string{}
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !envelope && isMessageKey(name) {
			return true
		}
		switch {
		case value.IsArray():
			for _, item := range value.Array() {
				fields[name] = append(fields[name], item.String())
			}
		case value.Type == gjson.String:
			fields[name] = append(fields[name], value.String())
		}
		return true
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func isMessageKey(name string) bool {
	for _, key := range messageKeys {
		if key == name {
			return true
		}
	}
	return false
}
