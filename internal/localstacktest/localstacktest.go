// Package localstacktest spins up a disposable Localstack container for
// integration tests using dockertest.
package localstacktest

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// StartSQS starts a Localstack container with the SQS service enabled and
// waits until it is healthy. It returns the endpoint URL to point the AWS
// SDK at and a cleanup function that removes the container.
func StartSQS() (string, func(), error) {
	// The AWS SDK requires credentials to be present. Localstack does not
	// validate them.
	if err := os.Setenv("AWS_ACCESS_KEY_ID", "localstack"); err != nil {
		return "", nil, fmt.Errorf("cannot set aws access key id: %w", err)
	}
	if err := os.Setenv("AWS_SECRET_ACCESS_KEY", "localstack"); err != nil {
		return "", nil, fmt.Errorf("cannot set aws secret access key: %w", err)
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", nil, fmt.Errorf("cannot create dockertest pool: %w", err)
	}
	if err := pool.Client.Ping(); err != nil {
		return "", nil, fmt.Errorf("cannot connect to Docker: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "localstack/localstack",
		Tag:        "3.5.0",
		Env: []string{
			"SERVICES=sqs",
		},
	}, func(config *docker.HostConfig) {
		config.RestartPolicy = docker.AlwaysRestart()
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to run dockertest resource pool: %w", err)
	}

	// Hard deadline in case a test run gets stuck and never purges.
	if err := resource.Expire(180); err != nil {
		return "", nil, fmt.Errorf("setting resource expiration failed: %w", err)
	}

	purge := func() { _ = pool.Purge(resource) }
	endpoint := fmt.Sprintf("http://localhost:%s", resource.GetPort("4566/tcp"))

	pool.MaxWait = 1 * time.Minute
	if err := pool.Retry(func() error {
		resp, err := http.Get(endpoint + "/_localstack/health")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := resp.Body.Close(); cerr != nil {
				slog.Error(fmt.Sprintf("cannot close healthcheck response body: %v", cerr))
			}
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("got status code: %d", resp.StatusCode)
		}
		return nil
	}); err != nil {
		purge()
		return "", nil, fmt.Errorf("localstack is not reachable: %w", err)
	}

	return endpoint, purge, nil
}
