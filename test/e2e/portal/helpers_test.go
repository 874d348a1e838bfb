package portal_test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/pkg/portalsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared assertions for the portal end-to-end tests.
 */

const (
	testImageName = "findit-portal-test:latest"

	adminHandle   = "admin"
	adminEmail    = "admin@school.example"
	adminPassword = "Admin123!"
	userPassword  = "Student123!"
)

// TestMain builds the image once for every test in the package.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() || os.Getenv("SKIP_E2E") != "" {
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building portal Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up portal Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/portal/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

// setupPortal starts the portal with a bootstrapped admin and generous
// rate limits, returning an anonymous client.
func setupPortal(t *testing.T, extraEnv map[string]string) *portalsdk.Client {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"BOOTSTRAP_ADMIN_HANDLE":   adminHandle,
		"BOOTSTRAP_ADMIN_EMAIL":    adminEmail,
		"BOOTSTRAP_ADMIN_PASSWORD": adminPassword,
		"ENV":                      "test",
		"LOG_FORMAT":               "json",
		"RATELIMIT_LOGIN_REQUESTS": "1000",
		"RATELIMIT_LOGIN_BURST":    "1000",
		"RATELIMIT_WRITE_REQUESTS": "1000",
		"RATELIMIT_WRITE_BURST":    "1000",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/readyz").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return portalsdk.NewClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()))
}

func loginAs(t *testing.T, c *portalsdk.Client, identifier, password string) *portalsdk.Client {
	t.Helper()
	res, err := c.Login(t.Context(), identifier, password)
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	return c.WithToken(res.AccessToken)
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var apiErr *portalsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected an API error, got %v", err)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
}

func newStudent(handle string) portalsdk.RegisterRequest {
	return portalsdk.RegisterRequest{
		Handle:       handle,
		Email:        handle + "@school.example",
		Password:     userPassword,
		DisplayName:  "Student " + handle,
		Role:         "student",
		LRN:          "400000000001",
		GradeSection: "11 - Mabini",
	}
}
