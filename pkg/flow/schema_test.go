package flow

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSchema(t *testing.T) map[string]any {
	t.Helper()
	data, err := SchemaJSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestSchemaDescribesFlowJob(t *testing.T) {
	doc := decodeSchema(t)

	assert.Equal(t, SchemaID, doc["$id"])
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.ElementsMatch(t,
		[]any{"name", "source_peer", "target_peer", "table_mappings"},
		doc["required"],
	)

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "description")

	name := props["name"].(map[string]any)
	assert.EqualValues(t, 1, name["minLength"])

	mappings := props["table_mappings"].(map[string]any)
	assert.Equal(t, "array", mappings["type"])
	assert.EqualValues(t, 1, mappings["minItems"])

	item := mappings["items"].(map[string]any)
	assert.Equal(t, false, item["additionalProperties"])
	assert.ElementsMatch(t,
		[]any{"source_table_identifier", "target_table_identifier"},
		item["required"],
	)
}

func TestSchemaPropertiesMatchDecoder(t *testing.T) {
	props := decodeSchema(t)["properties"].(map[string]any)

	// Every property the schema publishes must be accepted by DecodeJSON.
	var fields []string
	for name := range props {
		fields = append(fields, `"`+name+`": null`)
	}
	_, err := DecodeJSON(strings.NewReader("{" + strings.Join(fields, ",") + "}"))
	assert.NoError(t, err)

	_, err = DecodeJSON(strings.NewReader(`{"name": "f", "schedule": "@hourly"}`))
	assert.Error(t, err)
}
