// Package scraping retrieves shared radio inventory from management endpoints.
package scraping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.hon.one/radiocross/common"
	"dev.hon.one/radiocross/inventory"
	"dev.hon.one/radiocross/util"
)

// Inventory attribute markers.
const (
	SharedMarker = "isSharedWithExternalMe"
	SharedValue  = "true"
)

// ErrUnknownEndpoint - The endpoint name is not configured.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// ErrNoAuthMethod - The credential has neither password nor private key.
var ErrNoAuthMethod = errors.New("no SSH auth method")

// Retriever - Source of raw inventory records.
type Retriever interface {
	// Retrieve returns the records of all sources concatenated in order.
	Retrieve(ctx context.Context) ([]inventory.Record, error)
	// Source describes where the records come from.
	Source() string
}

// SSHRetriever - Runs the inventory command on management endpoints over SSH.
type SSHRetriever struct {
	Endpoints  []common.Endpoint
	Credential common.Credential
	Command    string
	Timeout    time.Duration // Per endpoint
}

// NewSSHRetriever - Create a retriever for the endpoints.
func NewSSHRetriever(endpoints []common.Endpoint, credential common.Credential, command string) *SSHRetriever {
	return &SSHRetriever{
		Endpoints:  endpoints,
		Credential: credential,
		Command:    command,
		Timeout:    common.RetrieveTimeout,
	}
}

// Source - Endpoint names joined by comma.
func (retriever *SSHRetriever) Source() string {
	names := make([]string, 0, len(retriever.Endpoints))
	for _, endpoint := range retriever.Endpoints {
		names = append(names, endpoint.Name)
	}
	return strings.Join(names, ",")
}

// Retrieve - Retrieve shared records from every endpoint in order.
func (retriever *SSHRetriever) Retrieve(ctx context.Context) ([]inventory.Record, error) {
	var lines []string
	for _, endpoint := range retriever.Endpoints {
		endpointLines, err := retriever.retrieveEndpoint(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		lines = append(lines, endpointLines...)
	}
	return FilterShared(inventory.StringRecords(lines)), nil
}

// RetrieveFrom - Retrieve shared records from a single named endpoint.
func (retriever *SSHRetriever) RetrieveFrom(ctx context.Context, name string) ([]inventory.Record, error) {
	for _, endpoint := range retriever.Endpoints {
		if endpoint.Name == name {
			lines, err := retriever.retrieveEndpoint(ctx, endpoint)
			if err != nil {
				return nil, err
			}
			return FilterShared(inventory.StringRecords(lines)), nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownEndpoint, name)
}

func (retriever *SSHRetriever) retrieveEndpoint(ctx context.Context, endpoint common.Endpoint) ([]string, error) {
	if retriever.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, retriever.Timeout)
		defer cancel()
	}
	startTime := time.Now()
	lines, err := runSSHCommand(ctx, endpoint, retriever.Credential, retriever.Command)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"endpoint":   endpoint.Name,
		"line_count": len(lines),
		"duration":   time.Since(startTime),
	}).Info("Retrieved inventory")
	return lines, nil
}

// FileRetriever - Reads a captured inventory dump, one record per line.
type FileRetriever struct {
	Path string
}

// Source - The dump path.
func (retriever *FileRetriever) Source() string {
	return retriever.Path
}

// Retrieve - Read shared records from the dump.
func (retriever *FileRetriever) Retrieve(ctx context.Context) ([]inventory.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines, err := util.ReadLines(retriever.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory dump: %w", err)
	}
	log.WithFields(log.Fields{
		"path":       retriever.Path,
		"line_count": len(lines),
	}).Info("Read inventory dump")
	return FilterShared(inventory.StringRecords(lines)), nil
}

// FilterShared - Keep identity and product data records of units shared with an external node.
// The shared flag belongs to the last identity record and is reset by every identity record.
func FilterShared(records []inventory.Record) []inventory.Record {
	filtered := make([]inventory.Record, 0, len(records))
	var identity inventory.Record
	shared := false
	for _, record := range records {
		value := record.Value()
		if strings.Contains(value, inventory.IdentityMarker) {
			identity = record
			shared = false
		}
		if strings.Contains(value, SharedMarker) {
			shared = strings.Contains(value, SharedValue)
		}
		if strings.Contains(value, inventory.AttributeMarker) && shared && identity != nil {
			filtered = append(filtered, identity, record)
		}
	}
	return filtered
}
