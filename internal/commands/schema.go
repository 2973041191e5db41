package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/calmkit/beacon/internal/output"
)

type commandArgSchema struct {
	Command     string         `json:"command"`
	Description string         `json:"description,omitempty"`
	ArgsSchema  map[string]any `json:"args_schema"`
}

// NewSchemaCmd emits a machine-readable description of every command and its
// flags, for scripting and tooling integrations.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "schema",
		Short:  "Print the argument schema of every command as JSON",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas := make([]commandArgSchema, 0)
			collectCommandSchemas(cmd.Root(), &schemas)

			type resp struct {
				Commands []commandArgSchema `json:"commands"`
			}
			return output.PrintSuccess(resp{Commands: schemas})
		},
	}
}

func collectCommandSchemas(cmd *cobra.Command, out *[]commandArgSchema) {
	if cmd.Name() != "" && cmd.Name() != "beacon" && cmd.Name() != "schema" && !cmd.Hidden {
		*out = append(*out, buildCommandSchema(cmd))
	}

	for _, child := range cmd.Commands() {
		collectCommandSchemas(child, out)
	}
}

func buildCommandSchema(cmd *cobra.Command) commandArgSchema {
	properties := map[string]any{}
	required := make([]string, 0)
	seen := map[string]bool{}

	addFlag := func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		if seen[f.Name] {
			return
		}
		seen[f.Name] = true

		flagSchema := map[string]any{
			"type":        normalizeFlagType(f.Value.Type()),
			"description": f.Usage,
		}

		if f.DefValue != "" {
			flagSchema["default"] = typedFlagDefault(f.Value.Type(), f.DefValue)
		}

		properties[f.Name] = flagSchema

		if isRequiredFlag(f) {
			required = append(required, f.Name)
		}
	}

	cmd.InheritedFlags().VisitAll(addFlag)
	cmd.NonInheritedFlags().VisitAll(addFlag)

	argsSchema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		argsSchema["required"] = required
	}

	return commandArgSchema{
		Command:     cmd.CommandPath(),
		Description: cmd.Short,
		ArgsSchema:  argsSchema,
	}
}

func normalizeFlagType(flagType string) string {
	switch flagType {
	case "int", "int64", "int32", "uint", "uint64", "uint32":
		return "integer"
	case "bool":
		return "boolean"
	default:
		return "string"
	}
}

func typedFlagDefault(flagType, raw string) any {
	switch flagType {
	case "bool":
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	case "int", "int64", "int32", "uint", "uint64", "uint32":
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return raw
}

func isRequiredFlag(f *pflag.Flag) bool {
	if f.Annotations != nil {
		if vals, ok := f.Annotations[cobra.BashCompOneRequiredFlag]; ok && len(vals) > 0 && vals[0] == "true" {
			return true
		}
	}

	usage := strings.ToLower(strings.TrimSpace(f.Usage))
	return strings.Contains(usage, "(required)")
}
