package peers

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers below are part of the stored format.

func encodePostgres(c *PostgresConfig) []byte {
	var e wireEncoder
	e.string(1, c.Host)
	e.uint64(2, uint64(c.Port))
	e.string(3, c.User)
	e.string(4, c.Password)
	e.string(5, c.Database)
	return e.buf
}

func decodePostgres(data []byte) (*PostgresConfig, error) {
	c := &PostgresConfig{}
	err := decodeMessage(data, map[protowire.Number]fieldDecoder{
		1: stringField(&c.Host),
		2: uint32Field(&c.Port),
		3: stringField(&c.User),
		4: stringField(&c.Password),
		5: stringField(&c.Database),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Snowflake field 5 was retired and must stay unused.
func encodeSnowflake(c *SnowflakeConfig) []byte {
	var e wireEncoder
	e.string(1, c.AccountID)
	e.string(2, c.Username)
	e.string(3, c.PrivateKey)
	e.string(4, c.Database)
	e.string(6, c.Warehouse)
	e.string(7, c.Role)
	e.uint64(8, c.QueryTimeout)
	return e.buf
}

func decodeSnowflake(data []byte) (*SnowflakeConfig, error) {
	c := &SnowflakeConfig{}
	err := decodeMessage(data, map[protowire.Number]fieldDecoder{
		1: stringField(&c.AccountID),
		2: stringField(&c.Username),
		3: stringField(&c.PrivateKey),
		4: stringField(&c.Database),
		6: stringField(&c.Warehouse),
		7: stringField(&c.Role),
		8: uint64Field(&c.QueryTimeout),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func encodeBigquery(c *BigqueryConfig) []byte {
	var e wireEncoder
	e.string(1, c.AuthType)
	e.string(2, c.ProjectID)
	e.string(3, c.PrivateKeyID)
	e.string(4, c.PrivateKey)
	e.string(5, c.ClientEmail)
	e.string(6, c.ClientID)
	e.string(7, c.AuthURI)
	e.string(8, c.TokenURI)
	e.string(9, c.AuthProviderX509CertURL)
	e.string(10, c.ClientX509CertURL)
	e.string(11, c.DatasetID)
	return e.buf
}

func decodeBigquery(data []byte) (*BigqueryConfig, error) {
	c := &BigqueryConfig{}
	err := decodeMessage(data, map[protowire.Number]fieldDecoder{
		1:  stringField(&c.AuthType),
		2:  stringField(&c.ProjectID),
		3:  stringField(&c.PrivateKeyID),
		4:  stringField(&c.PrivateKey),
		5:  stringField(&c.ClientEmail),
		6:  stringField(&c.ClientID),
		7:  stringField(&c.AuthURI),
		8:  stringField(&c.TokenURI),
		9:  stringField(&c.AuthProviderX509CertURL),
		10: stringField(&c.ClientX509CertURL),
		11: stringField(&c.DatasetID),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func encodeMongo(c *MongoConfig) []byte {
	var e wireEncoder
	e.string(1, c.Username)
	e.string(2, c.Password)
	e.string(3, c.ClusterURL)
	e.int32(4, c.ClusterPort)
	e.string(5, c.Database)
	return e.buf
}

func decodeMongo(data []byte) (*MongoConfig, error) {
	c := &MongoConfig{}
	err := decodeMessage(data, map[protowire.Number]fieldDecoder{
		1: stringField(&c.Username),
		2: stringField(&c.Password),
		3: stringField(&c.ClusterURL),
		4: int32Field(&c.ClusterPort),
		5: stringField(&c.Database),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
