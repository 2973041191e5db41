package commands

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlagType(t *testing.T) {
	require.Equal(t, "integer", normalizeFlagType("int64"))
	require.Equal(t, "boolean", normalizeFlagType("bool"))
	require.Equal(t, "string", normalizeFlagType("duration"))
	require.Equal(t, "string", normalizeFlagType("string"))
}

func TestTypedFlagDefault(t *testing.T) {
	require.Equal(t, true, typedFlagDefault("bool", "true"))
	require.Equal(t, 42, typedFlagDefault("int", "42"))
	require.Equal(t, "oops", typedFlagDefault("int", "oops"))
	require.Equal(t, "abc", typedFlagDefault("string", "abc"))
}

func TestIsRequiredFlag(t *testing.T) {
	reqByAnnotation := &pflag.Flag{Annotations: map[string][]string{cobra.BashCompOneRequiredFlag: {"true"}}}
	require.True(t, isRequiredFlag(reqByAnnotation))

	reqByUsage := &pflag.Flag{Usage: "Report id (required)"}
	require.True(t, isRequiredFlag(reqByUsage))

	notReq := &pflag.Flag{Usage: "optional flag"}
	require.False(t, isRequiredFlag(notReq))
}

func TestBuildCommandSchema_CollectsFlagsAndRequired(t *testing.T) {
	root := &cobra.Command{Use: "beacon"}
	root.PersistentFlags().String("db-path", "", "Database path (required)")

	child := &cobra.Command{Use: "logs", Short: "Log operations"}
	child.Flags().String("category", "network", "Filter by category")
	child.Flags().String("hidden-flag", "x", "hidden")
	require.NoError(t, child.Flags().MarkHidden("hidden-flag"))
	root.AddCommand(child)

	schema := buildCommandSchema(child)
	require.Equal(t, "beacon logs", schema.Command)
	require.Equal(t, "Log operations", schema.Description)

	props := schema.ArgsSchema["properties"].(map[string]any)
	require.Contains(t, props, "db-path")
	require.Contains(t, props, "category")
	require.NotContains(t, props, "hidden-flag")

	category := props["category"].(map[string]any)
	require.Equal(t, "string", category["type"])
	require.Equal(t, "network", category["default"])

	required := schema.ArgsSchema["required"].([]string)
	require.Contains(t, required, "db-path")
}

func TestCollectCommandSchemas_FiltersRootSchemaAndHidden(t *testing.T) {
	root := &cobra.Command{Use: "beacon"}
	schemaCmd := &cobra.Command{Use: "schema"}
	visible := &cobra.Command{Use: "logs", Short: "Logs"}
	hidden := &cobra.Command{Use: "secret", Hidden: true}

	root.AddCommand(schemaCmd, visible, hidden)

	var out []commandArgSchema
	collectCommandSchemas(root, &out)

	require.Len(t, out, 1)
	require.Equal(t, "beacon logs", out[0].Command)
}

func TestParseSince(t *testing.T) {
	ts, err := parseSince("2026-08-29T10:00:00Z")
	require.NoError(t, err)
	require.Equal(t, 2026, ts.Year())

	before, err := parseSince("24h")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(-24*time.Hour), before, time.Minute)

	_, err = parseSince("not-a-time")
	require.Error(t, err)
}
