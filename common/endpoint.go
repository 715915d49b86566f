package common

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"dev.hon.one/radiocross/util"
)

// Environment variables holding secrets and endpoint addresses.
const (
	EnvLogin          = "ENM_LOGIN"
	EnvPassword       = "ENM_PASSWORD"
	EnvPrivateKeyPath = "ENM_PRIVATE_KEY_PATH"
	EnvServerPrefix   = "ENM_SERVER_"
	EnvSMTPUsername   = "SMTP_USERNAME"
	EnvSMTPPassword   = "SMTP_PASSWORD"
)

const defaultEndpointSSHPort = 22

// Credential - Credential for the management endpoints.
type Credential struct {
	Username       string
	Password       string
	PrivateKeyPath string
}

// Endpoint - A management endpoint to retrieve inventory from.
type Endpoint struct {
	Name    string `json:"name"`    // Unique
	Address string `json:"address"` // Optional, defaults to ENM_SERVER_<NAME>
	Port    uint   `json:"port"`    // Optional, default to normal service port
}

// EndpointPort - Port to connect to.
func (endpoint Endpoint) EndpointPort() uint {
	if endpoint.Port > 0 {
		return endpoint.Port
	}
	return defaultEndpointSSHPort
}

// LoadCredential - Load the endpoint credential from the environment.
func LoadCredential() bool {
	credential := Credential{
		Username:       os.Getenv(EnvLogin),
		Password:       os.Getenv(EnvPassword),
		PrivateKeyPath: os.Getenv(EnvPrivateKeyPath),
	}
	if credential.Username == "" {
		log.WithFields(log.Fields{
			"variable": EnvLogin,
		}).Error("Credential username missing")
		return false
	}
	if credential.Password == "" && credential.PrivateKeyPath == "" {
		log.Error("Credential needs a password or a private key")
		return false
	}
	GlobalCredential = credential

	log.WithFields(log.Fields{
		"username": credential.Username,
	}).Info("Loaded credential")

	return true
}

// LoadEndpoints - Load endpoints from file from config.
func LoadEndpoints() bool {
	if GlobalConfig.EndpointsPath == "" {
		log.Error("Endpoints config path missing")
		return false
	}

	log.WithFields(log.Fields{
		"endpoints_path": GlobalConfig.EndpointsPath,
	}).Trace("Loading endpoints")
	var endpoints []Endpoint
	if !util.ParseJSONFile(&endpoints, GlobalConfig.EndpointsPath) {
		return false
	}
	if !ResolveEndpoints(endpoints) {
		return false
	}
	GlobalEndpoints = endpoints

	log.WithFields(log.Fields{
		"endpoint_count": len(GlobalEndpoints),
	}).Info("Loaded endpoints")

	return true
}

// ResolveEndpoints - Validate endpoints and fill missing addresses from the environment.
func ResolveEndpoints(endpoints []Endpoint) bool {
	if len(endpoints) == 0 {
		log.Error("No endpoints configured")
		return false
	}
	endpointNames := make(map[string]bool)
	for i := range endpoints {
		endpoint := &endpoints[i]
		if endpoint.Name == "" {
			log.WithFields(log.Fields{
				"endpoint_address": endpoint.Address,
			}).Error("Invalid endpoint, missing name")
			return false
		}
		// Check for duplicate name
		if _, found := endpointNames[endpoint.Name]; found {
			log.WithFields(log.Fields{
				"endpoint": endpoint.Name,
			}).Error("Duplicate endpoint name found")
			return false
		}
		endpointNames[endpoint.Name] = true
		if endpoint.Address == "" {
			endpoint.Address = os.Getenv(EndpointAddressVariable(endpoint.Name))
		}
		if endpoint.Address == "" {
			log.WithFields(log.Fields{
				"endpoint": endpoint.Name,
				"variable": EndpointAddressVariable(endpoint.Name),
			}).Error("Invalid endpoint, address not found")
			return false
		}
	}
	return true
}

// EndpointAddressVariable - Environment variable holding the address of an endpoint, e.g. ENM_SERVER_4 for ENM4.
func EndpointAddressVariable(name string) string {
	suffix := strings.ToUpper(name)
	suffix = strings.TrimPrefix(suffix, "ENM")
	suffix = strings.Trim(strings.ReplaceAll(suffix, "-", "_"), "_")
	return EnvServerPrefix + suffix
}
