package flow

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the published FlowJob schema.
const SchemaID = "https://github.com/marmos91/peercatalog/flow-job.schema.json"

// Schema returns the JSON schema of the payload accepted by DecodeJSON.
// Unknown properties are rejected, matching the decoder.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(&FlowJob{})
	schema.ID = SchemaID
	schema.Version = "https://json-schema.org/draft/2020-12/schema"
	schema.Title = "Flow job"
	schema.Description = "Flow definition registered with the peer catalog"
	return schema
}

// SchemaJSON renders Schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to generate flow job schema: %w", err)
	}
	return data, nil
}
