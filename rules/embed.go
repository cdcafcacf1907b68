// Package rules guarda o conjunto de guardas de payload por omissão (YAML).
package rules

import _ "embed"

//go:embed payload_guards.yaml
var Default []byte
