package peer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/internal/cli/output"
	"github.com/marmos91/peercatalog/internal/cli/prompt"
	"github.com/marmos91/peercatalog/pkg/peers"
)

var createName string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new peer",
	Long: `Register a new peer of the given backend type.

Secrets that are not passed as flags are prompted for.

Examples:
  peercatalog peer create postgres --name pg_source --host db.internal --user replicator --database orders
  peercatalog peer create snowflake --name sf --account xy12345 --user LOADER --private-key-file rsa_key.p8 --database ANALYTICS
  peercatalog peer create bigquery --name bq --key-file sa.json --dataset raw
  peercatalog peer create mongo --name events --cluster-url cluster0.mongodb.net --user app --database events`,
}

var (
	pgHost     string
	pgPort     uint32
	pgUser     string
	pgPassword string
	pgDatabase string

	sfAccount        string
	sfUser           string
	sfPrivateKeyFile string
	sfDatabase       string
	sfWarehouse      string
	sfRole           string
	sfQueryTimeout   uint64

	bqKeyFile string
	bqDataset string

	mongoUser     string
	mongoPassword string
	mongoURL      string
	mongoPort     int32
	mongoDatabase string
)

var createPostgresCmd = &cobra.Command{
	Use:   "postgres",
	Short: "Register a PostgreSQL peer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := secretOrPrompt(pgPassword, "Password")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
		return createPeer(cmd, &peers.PostgresConfig{
			Host:     pgHost,
			Port:     pgPort,
			User:     pgUser,
			Password: password,
			Database: pgDatabase,
		})
	},
}

var createSnowflakeCmd = &cobra.Command{
	Use:   "snowflake",
	Short: "Register a Snowflake peer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := os.ReadFile(sfPrivateKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read private key: %w", err)
		}
		return createPeer(cmd, &peers.SnowflakeConfig{
			AccountID:    sfAccount,
			Username:     sfUser,
			PrivateKey:   string(key),
			Database:     sfDatabase,
			Warehouse:    sfWarehouse,
			Role:         sfRole,
			QueryTimeout: sfQueryTimeout,
		})
	},
}

var createBigqueryCmd = &cobra.Command{
	Use:   "bigquery",
	Short: "Register a BigQuery peer from a service-account key file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(bqKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read service account key: %w", err)
		}
		cfg, err := parseServiceAccountKey(data, bqDataset)
		if err != nil {
			return err
		}
		return createPeer(cmd, cfg)
	},
}

var createMongoCmd = &cobra.Command{
	Use:   "mongo",
	Short: "Register a MongoDB peer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := secretOrPrompt(mongoPassword, "Password")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
		return createPeer(cmd, &peers.MongoConfig{
			Username:    mongoUser,
			Password:    password,
			ClusterURL:  mongoURL,
			ClusterPort: mongoPort,
			Database:    mongoDatabase,
		})
	},
}

func init() {
	createCmd.PersistentFlags().StringVar(&createName, "name", "", "Peer name (prompts if not provided)")

	createPostgresCmd.Flags().StringVar(&pgHost, "host", "localhost", "Database host")
	createPostgresCmd.Flags().Uint32Var(&pgPort, "port", 5432, "Database port")
	createPostgresCmd.Flags().StringVar(&pgUser, "user", "postgres", "Database user")
	createPostgresCmd.Flags().StringVar(&pgPassword, "password", "", "Database password (prompts if not provided)")
	createPostgresCmd.Flags().StringVar(&pgDatabase, "database", "", "Database name")
	_ = createPostgresCmd.MarkFlagRequired("database")

	createSnowflakeCmd.Flags().StringVar(&sfAccount, "account", "", "Account identifier")
	createSnowflakeCmd.Flags().StringVar(&sfUser, "user", "", "User name")
	createSnowflakeCmd.Flags().StringVar(&sfPrivateKeyFile, "private-key-file", "", "PEM-encoded private key for key-pair authentication")
	createSnowflakeCmd.Flags().StringVar(&sfDatabase, "database", "", "Database name")
	createSnowflakeCmd.Flags().StringVar(&sfWarehouse, "warehouse", "", "Warehouse")
	createSnowflakeCmd.Flags().StringVar(&sfRole, "role", "", "Role")
	createSnowflakeCmd.Flags().Uint64Var(&sfQueryTimeout, "query-timeout", 0, "Query timeout in seconds")
	for _, name := range []string{"account", "user", "private-key-file", "database"} {
		_ = createSnowflakeCmd.MarkFlagRequired(name)
	}

	createBigqueryCmd.Flags().StringVar(&bqKeyFile, "key-file", "", "Service account JSON key file")
	createBigqueryCmd.Flags().StringVar(&bqDataset, "dataset", "", "Dataset id")
	_ = createBigqueryCmd.MarkFlagRequired("key-file")
	_ = createBigqueryCmd.MarkFlagRequired("dataset")

	createMongoCmd.Flags().StringVar(&mongoUser, "user", "", "User name")
	createMongoCmd.Flags().StringVar(&mongoPassword, "password", "", "Password (prompts if not provided)")
	createMongoCmd.Flags().StringVar(&mongoURL, "cluster-url", "", "Cluster host")
	createMongoCmd.Flags().Int32Var(&mongoPort, "cluster-port", 27017, "Cluster port")
	createMongoCmd.Flags().StringVar(&mongoDatabase, "database", "", "Database name")
	_ = createMongoCmd.MarkFlagRequired("cluster-url")
	_ = createMongoCmd.MarkFlagRequired("database")

	createCmd.AddCommand(createPostgresCmd)
	createCmd.AddCommand(createSnowflakeCmd)
	createCmd.AddCommand(createBigqueryCmd)
	createCmd.AddCommand(createMongoCmd)
}

func createPeer(cmd *cobra.Command, cfg peers.Config) error {
	name := createName
	if name == "" {
		var err error
		name, err = prompt.InputRequired("Peer name")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	ctx := cmd.Context()
	session, err := cmdutil.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	p := &peers.Peer{Name: name, Type: cfg.DBType(), Config: cfg}
	id, err := session.Catalog.CreatePeer(ctx, p)
	if err != nil {
		return err
	}

	summary := output.PeerSummary{
		ID:       int32(id),
		Name:     name,
		Type:     p.Type.String(),
		Endpoint: output.Endpoint(cfg),
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, summary,
		fmt.Sprintf("Peer '%s' created (id %d)", name, id))
}

// secretOrPrompt returns value, or prompts for it when empty.
func secretOrPrompt(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return prompt.Password(label)
}

// serviceAccountKey is the JSON key file issued by Google Cloud IAM.
type serviceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// parseServiceAccountKey builds a BigQuery peer configuration from a
// service-account key file and the target dataset.
func parseServiceAccountKey(data []byte, dataset string) (*peers.BigqueryConfig, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("invalid service account key: %w", err)
	}
	if key.Type != "service_account" {
		return nil, fmt.Errorf("invalid service account key: type is %q, expected \"service_account\"", key.Type)
	}
	if key.ProjectID == "" || key.PrivateKey == "" || key.ClientEmail == "" {
		return nil, fmt.Errorf("invalid service account key: project_id, private_key and client_email are required")
	}
	if dataset == "" {
		return nil, fmt.Errorf("dataset is required")
	}

	return &peers.BigqueryConfig{
		AuthType:                key.Type,
		ProjectID:               key.ProjectID,
		PrivateKeyID:            key.PrivateKeyID,
		PrivateKey:              key.PrivateKey,
		ClientEmail:             key.ClientEmail,
		ClientID:                key.ClientID,
		AuthURI:                 key.AuthURI,
		TokenURI:                key.TokenURI,
		AuthProviderX509CertURL: key.AuthProviderX509CertURL,
		ClientX509CertURL:       key.ClientX509CertURL,
		DatasetID:               dataset,
	}, nil
}
