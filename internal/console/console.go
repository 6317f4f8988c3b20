// Package console runs the interactive numbered menu over a reader and writer.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"studyplanner/internal/metrics"
	"studyplanner/internal/models"
	"studyplanner/internal/planner"
	"studyplanner/internal/store"
)

const menu = `
Study Planner Menu
1. List tasks (all)
2. List incomplete tasks only
3. Add task
4. Edit task
5. Delete task
6. Toggle complete/incomplete
7. Generate daily plan
8. Import sample data
9. Save tasks
0. Exit
Choose: `

// errInput reports that the input stream ended mid-prompt.
var errInput = errors.New("input closed")

// Console drives the menu loop.
type Console struct {
	store    *store.TaskStore
	in       *bufio.Scanner
	out      io.Writer
	recorder *metrics.Recorder
}

// New creates a console reading commands from r and writing to w.
func New(s *store.TaskStore, r io.Reader, w io.Writer, recorder *metrics.Recorder) *Console {
	return &Console{
		store:    s,
		in:       bufio.NewScanner(r),
		out:      w,
		recorder: recorder,
	}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// The store is saved on the way out in every case. A line that is not a
// number re-shows the menu.
func (c *Console) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return c.exit(ctx)
		}

		c.print(menu)

		line, ok := c.readLine()
		if !ok {
			return c.exit(ctx)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			continue
		}

		switch choice {
		case 1:
			WriteTasks(c.out, c.store.All(), true)
		case 2:
			WriteTasks(c.out, c.store.All(), false)
		case 3:
			err = c.addTask(ctx)
		case 4:
			err = c.editTask(ctx)
		case 5:
			err = c.removeTask(ctx)
		case 6:
			err = c.toggleTask(ctx)
		case 7:
			err = c.generatePlan()
		case 8:
			c.report(c.store.ImportSample(ctx), "Sample data imported.")
		case 9:
			c.report(c.store.Save(ctx), "Saved.")
		case 0:
			return c.exit(ctx)
		default:
			c.println("Unknown choice.")
		}

		if errors.Is(err, errInput) {
			return c.exit(ctx)
		}
		if err != nil {
			c.println(fmt.Sprintf("Error: %v", err))
		}
	}
}

// exit saves even when ctx is already cancelled.
func (c *Console) exit(ctx context.Context) error {
	err := c.store.Save(context.WithoutCancel(ctx))
	if err != nil {
		c.println("Error saving tasks to file.")
	}
	c.println("Goodbye!")
	return err
}

func (c *Console) addTask(ctx context.Context) error {
	var task models.Task
	var err error

	if task.Title, err = c.prompt("Title: "); err != nil {
		return err
	}
	if task.Subject, err = c.prompt("Subject: "); err != nil {
		return err
	}
	if task.DurationMinutes, err = c.promptInt("Estimated duration (minutes): "); err != nil {
		return c.invalid(err)
	}
	if task.Priority, err = c.promptInt("Priority (1 = highest): "); err != nil {
		return c.invalid(err)
	}
	if task.DueDate, err = c.prompt("Due date (YYYY-MM-DD) or blank: "); err != nil {
		return err
	}

	id, err := c.store.Add(ctx, task)
	switch {
	case errors.Is(err, store.ErrInvalidTask):
		c.println(fmt.Sprintf("Task rejected: %v", err))
	case errors.Is(err, store.ErrPersistenceUnavailable):
		c.println("Error saving tasks to file.")
		c.println(fmt.Sprintf("Added task with ID %d.", id))
	case err != nil:
		return err
	default:
		c.println(fmt.Sprintf("Added task with ID %d.", id))
	}
	return nil
}

func (c *Console) editTask(ctx context.Context) error {
	id, err := c.promptInt("Enter task ID to edit: ")
	if err != nil {
		return c.invalid(err)
	}

	current, ok := c.store.Find(id)
	if !ok {
		c.println("Task not found.")
		return nil
	}

	var patch models.TaskPatch

	if s, err := c.prompt(fmt.Sprintf("Title (%s): ", current.Title)); err != nil {
		return err
	} else if s != "" {
		patch.Title = &s
	}
	if s, err := c.prompt(fmt.Sprintf("Subject (%s): ", current.Subject)); err != nil {
		return err
	} else if s != "" {
		patch.Subject = &s
	}
	if n, set, err := c.promptOptionalInt(fmt.Sprintf("Estimated duration (minutes) (%d): ", current.DurationMinutes)); err != nil {
		return c.invalid(err)
	} else if set {
		patch.DurationMinutes = &n
	}
	if n, set, err := c.promptOptionalInt(fmt.Sprintf("Priority (%d): ", current.Priority)); err != nil {
		return c.invalid(err)
	} else if set {
		patch.Priority = &n
	}
	if s, err := c.prompt(fmt.Sprintf("Due date (%s): ", current.DueDate)); err != nil {
		return err
	} else if s != "" {
		patch.DueDate = &s
	}

	_, err = c.store.Update(ctx, id, patch)
	c.report(err, "Task updated.")
	return nil
}

func (c *Console) removeTask(ctx context.Context) error {
	id, err := c.promptInt("Enter task ID to delete: ")
	if err != nil {
		return c.invalid(err)
	}

	c.report(c.store.Remove(ctx, id), "Task deleted.")
	return nil
}

func (c *Console) toggleTask(ctx context.Context) error {
	id, err := c.promptInt("Enter task ID to toggle complete: ")
	if err != nil {
		return c.invalid(err)
	}

	task, err := c.store.Toggle(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.println("Task not found.")
		return nil
	}
	if errors.Is(err, store.ErrPersistenceUnavailable) {
		c.println("Error saving tasks to file.")
	}
	if task.Completed {
		c.println("Task marked complete.")
	} else {
		c.println("Task marked incomplete.")
	}
	return nil
}

func (c *Console) generatePlan() error {
	minutes, err := c.promptInt("Enter available study time today (minutes): ")
	if err != nil {
		return c.invalid(err)
	}

	plan := planner.Generate(c.store.All(), minutes)
	c.recorder.Plan(string(plan.Outcome))
	WritePlan(c.out, plan)
	return nil
}

// report prints success, or the message matching a store error kind.
func (c *Console) report(err error, success string) {
	switch {
	case err == nil:
		c.println(success)
	case errors.Is(err, store.ErrNotFound):
		c.println("Task not found.")
	case errors.Is(err, store.ErrInvalidTask):
		c.println(fmt.Sprintf("Task rejected: %v", err))
	case errors.Is(err, store.ErrPersistenceUnavailable):
		c.println("Error saving tasks to file.")
	default:
		c.println(fmt.Sprintf("Error: %v", err))
	}
}

// invalid prints a message for a bad number and swallows the error so the
// menu continues. Closed input is passed through.
func (c *Console) invalid(err error) error {
	if errors.Is(err, errInput) {
		return err
	}
	c.println("Invalid number.")
	return nil
}

func (c *Console) prompt(label string) (string, error) {
	c.print(label)
	line, ok := c.readLine()
	if !ok {
		return "", errInput
	}
	return line, nil
}

func (c *Console) promptInt(label string) (int, error) {
	s, err := c.prompt(label)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

func (c *Console) promptOptionalInt(label string) (int, bool, error) {
	s, err := c.prompt(label)
	if err != nil {
		return 0, false, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSuffix(c.in.Text(), "\r"), true
}

func (c *Console) print(s string) {
	fmt.Fprint(c.out, s)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
