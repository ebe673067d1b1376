package peers

import (
	"fmt"
	"strings"
)

// DBType is the backend discriminant stored in the peers.type column.
type DBType int32

// Discriminant values are persisted; never renumber them.
const (
	DBTypeBigquery  DBType = 0
	DBTypeSnowflake DBType = 1
	DBTypeMongo     DBType = 2
	DBTypePostgres  DBType = 3
)

var dbTypeNames = map[DBType]string{
	DBTypeBigquery:  "bigquery",
	DBTypeSnowflake: "snowflake",
	DBTypeMongo:     "mongo",
	DBTypePostgres:  "postgres",
}

// String returns the lower-case backend name, or Unknown(n).
func (t DBType) String() string {
	if name, ok := dbTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int32(t))
}

// Valid reports whether t is one of the known backends.
func (t DBType) Valid() bool {
	_, ok := dbTypeNames[t]
	return ok
}

// DBTypeFromInt32 maps a stored discriminant to a DBType.
// The boolean is false when the value matches no known backend.
func DBTypeFromInt32(v int32) (DBType, bool) {
	t := DBType(v)
	return t, t.Valid()
}

// ParseDBType parses a backend name such as "postgres" (case-insensitive).
func ParseDBType(s string) (DBType, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for t, name := range dbTypeNames {
		if name == needle {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown peer type %q (valid: bigquery, snowflake, mongo, postgres)", s)
}

// Peer is a named external endpoint registered in the catalog.
type Peer struct {
	// ID is assigned by the store on creation. Zero for peers not yet stored.
	ID int32 `json:"id,omitempty" yaml:"id,omitempty"`

	Name string `json:"name" yaml:"name"`
	Type DBType `json:"type" yaml:"type"`

	// Config is nil when the stored type discriminant is not recognized.
	Config Config `json:"config,omitempty" yaml:"config,omitempty"`
}

// Config is the backend-specific configuration of a peer. The set of
// implementations is closed to this package.
type Config interface {
	// DBType returns the discriminant that matches this variant.
	DBType() DBType

	isPeerConfig()
}

func (*PostgresConfig) isPeerConfig()  {}
func (*SnowflakeConfig) isPeerConfig() {}
func (*BigqueryConfig) isPeerConfig()  {}
func (*MongoConfig) isPeerConfig()     {}

// DBType implements Config.
func (*PostgresConfig) DBType() DBType { return DBTypePostgres }

// DBType implements Config.
func (*SnowflakeConfig) DBType() DBType { return DBTypeSnowflake }

// DBType implements Config.
func (*BigqueryConfig) DBType() DBType { return DBTypeBigquery }

// DBType implements Config.
func (*MongoConfig) DBType() DBType { return DBTypeMongo }

// PostgresConfig holds connection settings for a PostgreSQL peer.
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     uint32 `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Database string `json:"database" yaml:"database"`
}

// ConnectionString renders libpq key/value settings. The password pair is
// omitted when empty.
func (c *PostgresConfig) ConnectionString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "host=%s port=%d user=%s", c.Host, c.Port, c.User)
	if c.Password != "" {
		fmt.Fprintf(&b, " password=%s", c.Password)
	}
	fmt.Fprintf(&b, " dbname=%s", c.Database)
	return b.String()
}

// SnowflakeConfig holds key-pair authentication settings for a Snowflake peer.
type SnowflakeConfig struct {
	AccountID  string `json:"account_id" yaml:"account_id"`
	Username   string `json:"username" yaml:"username"`
	PrivateKey string `json:"private_key,omitempty" yaml:"private_key,omitempty"`
	Database   string `json:"database" yaml:"database"`
	Warehouse  string `json:"warehouse" yaml:"warehouse"`
	Role       string `json:"role" yaml:"role"`
	// QueryTimeout is in seconds.
	QueryTimeout uint64 `json:"query_timeout" yaml:"query_timeout"`
}

// BigqueryConfig mirrors a Google service-account key plus the target dataset.
type BigqueryConfig struct {
	AuthType                string `json:"type" yaml:"auth_type"`
	ProjectID               string `json:"project_id" yaml:"project_id"`
	PrivateKeyID            string `json:"private_key_id" yaml:"private_key_id"`
	PrivateKey              string `json:"private_key,omitempty" yaml:"private_key,omitempty"`
	ClientEmail             string `json:"client_email" yaml:"client_email"`
	ClientID                string `json:"client_id" yaml:"client_id"`
	AuthURI                 string `json:"auth_uri" yaml:"auth_uri"`
	TokenURI                string `json:"token_uri" yaml:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url" yaml:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url" yaml:"client_x509_cert_url"`
	DatasetID               string `json:"dataset_id" yaml:"dataset_id"`
}

// MongoConfig holds connection settings for a MongoDB peer.
type MongoConfig struct {
	Username    string `json:"username" yaml:"username"`
	Password    string `json:"password,omitempty" yaml:"password,omitempty"`
	ClusterURL  string `json:"cluster_url" yaml:"cluster_url"`
	ClusterPort int32  `json:"cluster_port" yaml:"cluster_port"`
	Database    string `json:"database" yaml:"database"`
}
