package storage

// ConfigJSONSchema documents the runtime shape expected by storage providers.
// It is intentionally minimal; provider-specific options are captured in the
// nested "options" map.
const ConfigJSONSchema = `
{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "StorageConfig",
  "type": "object",
  "required": ["name", "driver", "dsn"],
  "properties": {
    "name": {
      "type": "string",
      "description": "Human readable identifier for the storage configuration"
    },
    "driver": {
      "type": "string",
      "description": "Driver identifier understood by the storage adapter (e.g. sqlite3, postgres)"
    },
    "dsn": {
      "type": "string",
      "description": "Connection string or URI for the provider"
    },
    "readOnly": {
      "type": "boolean",
      "default": false
    },
    "options": {
      "type": "object",
      "additionalProperties": true
    }
  },
  "additionalProperties": false
}
`
