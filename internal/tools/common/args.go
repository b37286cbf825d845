package common

import (
	"fmt"
	"strings"
)

// StringArg returns the trimmed string argument name, or "" when it is
// missing or not a string.
func StringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return strings.TrimSpace(v)
}

// RequiredStringArg is StringArg that fails for an empty value.
func RequiredStringArg(args map[string]any, name string) (string, error) {
	v := StringArg(args, name)
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}
