package runner

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tsched/catalog"
	"tsched/config"
	"tsched/run"

	"github.com/golang-collections/collections/queue"
)

// Worker executes the selected test cases of a schedule one at a time, in
// the order they were queued.
type Worker struct {
	Name     string
	Queue    queue.Queue
	Executor Executor
	Config   config.Runner
}

func NewWorker(name string, e Executor, cfg config.Runner) *Worker {
	return &Worker{
		Name:     name,
		Queue:    *queue.New(),
		Executor: e,
		Config:   cfg,
	}
}

func (w *Worker) AddCandidate(c catalog.Candidate) {
	w.Queue.Enqueue(c)
}

// RunAll drains the queue. Once ctx is done the remaining candidates are
// reported as not run.
func (w *Worker) RunAll(ctx context.Context) []run.Result {
	var results []run.Result

	for w.Queue.Len() > 0 {
		c := w.Queue.Dequeue().(catalog.Candidate)

		if err := ctx.Err(); err != nil {
			results = append(results, run.Result{
				CandidateID: c.ID,
				ExitCode:    -1,
				Error:       fmt.Sprintf("not run: %s", err),
			})
			continue
		}

		w.Logln("running %s (%s)", c.ID, c.Name)
		res := w.Executor.Execute(ctx, w.spec(c))
		if res.Passed {
			w.Logln("%s passed in %s", c.ID, res.Duration)
		} else {
			w.Logln("%s failed with exit code %d %s", c.ID, res.ExitCode, res.Error)
		}
		results = append(results, res)
	}

	return results
}

func (w *Worker) spec(c catalog.Candidate) Spec {
	return Spec{
		CandidateID: c.ID,
		Image:       w.Config.Image,
		Command:     ExpandCommand(w.Config.Command, c),
		Env:         w.Config.Env,
	}
}

// ExpandCommand substitutes {name} and {id} in every argument.
func ExpandCommand(tpl []string, c catalog.Candidate) []string {
	r := strings.NewReplacer("{name}", c.Name, "{id}", c.ID)
	args := make([]string, len(tpl))
	for i, a := range tpl {
		args[i] = r.Replace(a)
	}
	return args
}

func (w *Worker) Logln(msg string, param ...any) string {

	s := "[runner " + w.Name + "] " + msg
	if len(param) >= 1 {
		s = fmt.Sprintf(s, param...)
	}

	log.Println(s)

	return s
}
