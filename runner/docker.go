package runner

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"tsched/run"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// Spec describes one test case container.
type Spec struct {
	CandidateID string
	Image       string
	Command     []string
	Env         []string
}

// Executor runs a single test case to completion.
type Executor interface {
	Execute(ctx context.Context, s Spec) run.Result
}

var _ Executor = &Docker{}

// Docker runs each test case in a fresh container and removes it once the
// exit code has been collected.
type Docker struct {
	Client *client.Client
	Output io.Writer
}

func NewDocker(out io.Writer) (*Docker, error) {

	dc, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}

	return &Docker{Client: dc, Output: out}, nil
}

func (d *Docker) Execute(ctx context.Context, s Spec) run.Result {
	start := time.Now()
	result := run.Result{CandidateID: s.CandidateID, ExitCode: -1}
	fail := func(msg string, err error) run.Result {
		log.Printf("[runner] %s for %s: %s", msg, s.CandidateID, err)
		result.Error = fmt.Sprintf("%s: %s", msg, err)
		result.Duration = time.Since(start)
		return result
	}

	reader, err := d.Client.ImagePull(ctx, s.Image, image.PullOptions{})
	if err != nil {
		return fail("pulling image", err)
	}
	io.Copy(io.Discard, reader)
	reader.Close()

	cc := container.Config{
		Image: s.Image,
		Cmd:   s.Command,
		Env:   s.Env,
		Tty:   false,
	}
	hc := container.HostConfig{
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyDisabled},
	}

	resp, err := d.Client.ContainerCreate(ctx, &cc, &hc, nil, nil, "")
	if err != nil {
		return fail("creating container", err)
	}
	result.ContainerID = resp.ID
	defer d.remove(resp.ID)

	if err := d.Client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return fail("starting container", err)
	}

	statusCh, errCh := d.Client.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return fail("waiting for container", err)
	case status := <-statusCh:
		result.ExitCode = status.StatusCode
		if status.Error != nil {
			result.Error = status.Error.Message
		}
	}

	if d.Output != nil {
		out, err := d.Client.ContainerLogs(ctx, resp.ID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
		if err != nil {
			log.Printf("[runner] getting logs for %s: %s", s.CandidateID, err)
		} else {
			stdcopy.StdCopy(d.Output, d.Output, out)
			out.Close()
		}
	}

	result.Passed = result.ExitCode == 0 && result.Error == ""
	result.Duration = time.Since(start)
	return result
}

func (d *Docker) remove(id string) {
	err := d.Client.ContainerRemove(context.Background(), id, container.RemoveOptions{
		RemoveVolumes: true,
		Force:         true,
	})
	if err != nil {
		log.Printf("[runner] error removing container %s: %s", id, err)
	}
}
