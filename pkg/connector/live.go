/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: live.go
Description: Live connector for the Akaylee Identifier. Drives a real peer over
a network session through an external probing harness process: starts the
harness, waits for it to initialize, and exchanges newline-framed tokens over
its TCP control socket.
*/

package connector

import (
	"bufio"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// resetToken is the dedicated token the harness understands as a
// request to restart the underlying session without tearing down the
// process.
const resetToken = "RESET"

// responseBufferSize bounds a single harness response. The harness
// never produces more than this, but something more robust is
// desirable.
const responseBufferSize = 1024

// LiveConfig configures the live connector.
type LiveConfig struct {
	// HarnessJar is the path to the probing harness jar.
	HarnessJar string
	// MessageDir is the directory of protocol message definitions the
	// harness loads.
	MessageDir string
	// TargetHost and TargetPort locate the peer to identify.
	TargetHost string
	TargetPort int
	// HarnessAddr is the harness control socket address.
	HarnessAddr string
	// ReadTimeout bounds each blocking receive. Zero means no
	// deadline; a timeout surfaces as a failed send, not a hang.
	ReadTimeout time.Duration
}

// Live drives a real peer through the external harness process.
type Live struct {
	process *exec.Cmd
	socket  net.Conn
	config  LiveConfig
	logger  *logrus.Logger
	closed  bool
}

// NewLive starts the harness process and connects to its control
// socket. Returns a handle to both. Construction failure (process
// fails to start, cannot connect) is fatal for the identification
// attempt.
func NewLive(config LiveConfig, logger *logrus.Logger) (*Live, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if config.HarnessAddr == "" {
		config.HarnessAddr = "localhost:6666"
	}
	if config.TargetPort == 0 {
		config.TargetPort = 443
	}

	process := exec.Command(
		"java", "-jar", config.HarnessJar,
		"--targetHost", config.TargetHost,
		"--targetPort", strconv.Itoa(config.TargetPort),
		"--messageDir", config.MessageDir,
		"--merge-application",
	)
	stdout, err := process.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to attach to harness stdout: %w", err)
	}
	if err := process.Start(); err != nil {
		return nil, fmt.Errorf("failed to start harness process: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"target": fmt.Sprintf("%s:%d", config.TargetHost, config.TargetPort),
		"jar":    config.HarnessJar,
	}).Info("Starting probing harness")

	// The harness writes one line to stdout once it is initialized.
	if _, err := bufio.NewReader(stdout).ReadString('\n'); err != nil {
		_ = process.Process.Kill()
		_ = process.Wait()
		return nil, fmt.Errorf("harness did not initialize: %w", err)
	}

	socket, err := net.DialTimeout("tcp", config.HarnessAddr, 10*time.Second)
	if err != nil {
		_ = process.Process.Kill()
		_ = process.Wait()
		return nil, fmt.Errorf("failed to connect to harness socket %s: %w", config.HarnessAddr, err)
	}

	return &Live{
		process: process,
		socket:  socket,
		config:  config,
		logger:  logger,
	}, nil
}

// Send transmits one input token to the harness and blocks until the
// response token arrives. Appends the newline framing on the way out
// and strips it from the response.
func (l *Live) Send(input string) (string, error) {
	if l.config.ReadTimeout > 0 {
		if err := l.socket.SetReadDeadline(time.Now().Add(l.config.ReadTimeout)); err != nil {
			return "", fmt.Errorf("failed to set read deadline: %w", err)
		}
	}
	if _, err := l.socket.Write([]byte(input + "\n")); err != nil {
		return "", fmt.Errorf("failed to send %q: %w", input, err)
	}
	buffer := make([]byte, responseBufferSize)
	n, err := l.socket.Read(buffer)
	if err != nil {
		return "", fmt.Errorf("failed to read response to %q: %w", input, err)
	}
	response := strings.TrimSpace(string(buffer[:n]))
	l.logger.WithFields(logrus.Fields{"input": input, "response": response}).Debug("Probe exchanged")
	return response, nil
}

// Reset asks the harness to restart the session with the peer.
func (l *Live) Reset() error {
	if _, err := l.Send(resetToken); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

// Close terminates both the control socket and the harness process.
// Safe to call more than once.
func (l *Live) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	sockErr := l.socket.Close()
	if err := l.process.Process.Kill(); err == nil {
		_ = l.process.Wait()
	}
	if sockErr != nil {
		return fmt.Errorf("failed to close harness socket: %w", sockErr)
	}
	return nil
}
