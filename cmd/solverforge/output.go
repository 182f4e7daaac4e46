package main

import (
	"encoding/json"
	"fmt"
)

// printJSON renders v as indented JSON to stdout, the --format json
// counterpart to solve.go's YAML path.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
