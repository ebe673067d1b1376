// Package peers defines the catalog's peer model: a named external endpoint
// with a backend type discriminant and a backend-specific configuration.
//
// The configuration is a closed set of variants (PostgresConfig,
// SnowflakeConfig, BigqueryConfig, MongoConfig) behind the Config interface.
// Each variant owns an explicit encode/decode pair producing protobuf wire
// format, and Encode/Decode dispatch through a table keyed by DBType. Field
// numbers match the catalog's historical protobuf schema, so options written
// by earlier catalog versions decode unchanged.
package peers
