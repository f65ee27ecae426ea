// Command filedemo mirrors the original design's nested-task file
// example: an outer task spawns three child tasks, each of which
// reads a file's contents (directly, or through one further layer of
// nested child tasks), and the outer task awaits and prints each
// child's result in turn.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gocotask/cotask"
)

func main() {
	path := flag.String("path", "", "file to read")
	flag.Parse()
	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: filedemo -path <file>")
		os.Exit(1)
	}

	sched, err := cotask.NewScheduler()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sched.Close()

	root := cotask.Spawn(sched, func(tc *cotask.TaskContext[cotask.Unit]) cotask.Unit {
		first := cotask.Spawn(sched, func(ctc *cotask.TaskContext[string]) string {
			return readWhole(ctc, sched, *path)
		})
		second := cotask.Spawn(sched, func(ctc *cotask.TaskContext[string]) string {
			// One extra layer of nesting: a grandchild does the actual
			// read, and this task just relays its result.
			grandchild := cotask.Spawn(sched, func(gctc *cotask.TaskContext[string]) string {
				return readWhole(gctc, sched, *path)
			})
			return cotask.Await(ctc, grandchild)
		})
		third := cotask.Spawn(sched, func(ctc *cotask.TaskContext[string]) string {
			return readWhole(ctc, sched, *path)
		})

		fmt.Println("first: ", cotask.Await(tc, first))
		fmt.Println("second:", cotask.Await(tc, second))
		fmt.Println("third: ", cotask.Await(tc, third))
		return cotask.Unit{}
	})

	if err := cotask.ScheduleRoot(sched, root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := sched.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readWhole[T any](tc *cotask.TaskContext[T], sched *cotask.Scheduler, path string) string {
	reader, err := cotask.OpenFile(sched, path)
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	defer reader.Close()
	result := cotask.Await(tc, reader.ReadAll(0))
	if !result.Success {
		return "<read error>"
	}
	return result.String()
}
