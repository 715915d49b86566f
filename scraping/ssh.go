package scraping

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"dev.hon.one/radiocross/common"
)

func checkEndpointFailure(endpoint common.Endpoint, message string, err error) error {
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"endpoint": endpoint.Name,
		}).Tracef("Endpoint error: %v", message)
		return fmt.Errorf("%v: %v: %w", endpoint.Name, message, err)
	}
	return nil
}

func newSSHConfig(credential common.Credential) (*ssh.ClientConfig, error) {
	authMethods := make([]ssh.AuthMethod, 0)
	if credential.Password != "" {
		authMethods = append(authMethods, ssh.Password(credential.Password))
	}
	if credential.PrivateKeyPath != "" {
		privkey, err := os.ReadFile(credential.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH private key %v: %w", credential.PrivateKeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(privkey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH private key %v: %w", credential.PrivateKeyPath, err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}
	if len(authMethods) == 0 {
		return nil, ErrNoAuthMethod
	}
	return &ssh.ClientConfig{
		User:            credential.Username,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Auth:            authMethods,
		Timeout:         30 * time.Second,
	}, nil
}

func openSSHClient(ctx context.Context, endpoint common.Endpoint, credential common.Credential) (*ssh.Client, error) {
	sshConfig, err := newSSHConfig(credential)
	if err := checkEndpointFailure(endpoint, "Invalid credential", err); err != nil {
		return nil, err
	}

	fullAddress := net.JoinHostPort(endpoint.Address, fmt.Sprint(endpoint.EndpointPort()))

	// Dial with the context so a stuck endpoint can be abandoned
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", fullAddress)
	if err := checkEndpointFailure(endpoint, fmt.Sprintf("Failed to connect to endpoint: %v", fullAddress), err); err != nil {
		return nil, err
	}
	sshConn, channels, requests, err := ssh.NewClientConn(conn, fullAddress, sshConfig)
	if err != nil {
		conn.Close()
		return nil, checkEndpointFailure(endpoint, "SSH handshake failed", err)
	}
	return ssh.NewClient(sshConn, channels, requests), nil
}

// Open SSH connection and run a single command, returning its output lines.
func runSSHCommand(ctx context.Context, endpoint common.Endpoint, credential common.Credential, command string) ([]string, error) {
	sshClient, err := openSSHClient(ctx, endpoint, credential)
	if err != nil {
		return nil, err
	}
	defer sshClient.Close()

	// Closing the client aborts a running command
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			sshClient.Close()
		case <-done:
		}
	}()

	session, err := sshClient.NewSession()
	if err := checkEndpointFailure(endpoint, "Failed to start session", err); err != nil {
		return nil, err
	}
	defer session.Close()
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	log.WithFields(log.Fields{
		"endpoint": endpoint.Name,
		"command":  command,
	}).Trace("Running command")
	err = session.Run(command)
	if ctx.Err() != nil {
		return nil, checkEndpointFailure(endpoint, "Command aborted", ctx.Err())
	}
	if err := checkEndpointFailure(endpoint, fmt.Sprintf("Failed to run SSH command: %v", command), err); err != nil {
		return nil, err
	}
	drainStderrLines(endpoint, &stderr)

	return splitOutputLines(&stdout), nil
}

// Log anything the endpoint wrote to STDERR.
func drainStderrLines(endpoint common.Endpoint, reader io.Reader) {
	for _, line := range splitOutputLines(reader) {
		log.WithFields(log.Fields{
			"endpoint": endpoint.Name,
		}).Tracef("Received line on STDERR: %v", line)
	}
}

// Split output into lines without carriage returns, dropping blank lines.
func splitOutputLines(reader io.Reader) []string {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.Replace(line, "\r", "", -1)
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
