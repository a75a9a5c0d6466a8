package telemetry

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

// DefaultPort is the MQTT over TLS port of the cloud bridge.
const DefaultPort = 8883

// Config describes the MQTT connection for one device.
type Config struct {
	Broker   string
	ClientID string
	Topic    string
	Username string
	Password string
	TLS      *tls.Config
}

// ClientID formats the device path the cloud bridge expects as client ID.
func ClientID(c record.CloudConfig) string {
	return fmt.Sprintf("projects/%s/locations/%s/registries/%s/devices/%s",
		c.ProjectID, c.Region, c.RegistryID, c.DeviceID)
}

// EventsTopic is the telemetry topic of a device.
func EventsTopic(deviceID string) string {
	return fmt.Sprintf("/devices/%s/events", deviceID)
}

// FromStore builds the connection settings from the stored IoT record and
// certificates. broker overrides the stored endpoint when not empty.
// Certificates that were never stored are left out of the TLS config.
func FromStore(st store.Store, broker string) (Config, error) {
	var iot record.IotConfig
	if err := store.Load(st, store.IotInputCfg, 0, &iot); err != nil {
		return Config{}, err
	}
	if !iot.Valid {
		return Config{}, ErrNotConfigured
	}

	if broker == "" {
		broker = fmt.Sprintf("ssl://%s:%d", iot.Cloud.Endpoint, DefaultPort)
	}

	tlsCfg, err := tlsConfig(st, iot.Cloud.Endpoint)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Broker:   broker,
		ClientID: ClientID(iot.Cloud),
		Topic:    EventsTopic(iot.Cloud.DeviceID),
		TLS:      tlsCfg,
	}, nil
}

func tlsConfig(st store.Store, serverName string) (*tls.Config, error) {
	cfg := &tls.Config{
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	}

	rootDER, err := readBlob(st, store.RootCACertCfg)
	if err != nil {
		return nil, err
	}
	if rootDER != nil {
		root, err := x509.ParseCertificate(rootDER)
		if err != nil {
			return nil, fmt.Errorf("parse root CA: %w", err)
		}
		cfg.RootCAs = x509.NewCertPool()
		cfg.RootCAs.AddCert(root)
	}

	certDER, err := readBlob(st, store.DevCertCfg)
	if err != nil {
		return nil, err
	}
	keyDER, err := readBlob(st, store.PriKeyCfg)
	if err != nil {
		return nil, err
	}
	if certDER == nil || keyDER == nil {
		return cfg, nil
	}

	leaf, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, fmt.Errorf("parse device certificate: %w", err)
	}
	key, err := parseKey(keyDER)
	if err != nil {
		return nil, err
	}
	cfg.Certificates = []tls.Certificate{{
		Certificate: [][]byte{certDER},
		PrivateKey:  key,
		Leaf:        leaf,
	}}
	return cfg, nil
}

// parseKey accepts PKCS#1 RSA keys and falls back to PKCS#8.
func parseKey(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

func readBlob(st store.Store, typ store.RecordType) ([]byte, error) {
	data, err := st.Read(typ, 0)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", typ, err)
	}
	return data, nil
}
