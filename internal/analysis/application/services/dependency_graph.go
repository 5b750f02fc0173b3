package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

const (
	independentScore = 0.3
	emptyGraphScore  = 0.5
)

// dependencyGraph is derived once per analysis and shared by every task.
type dependencyGraph struct {
	total    int
	blocking int
}

func newDependencyGraph(tasks []domain.Task) dependencyGraph {
	ids := make(map[int]struct{}, len(tasks))
	for i, task := range tasks {
		ids[task.Identifier(i)] = struct{}{}
	}

	blocking := 0
	for _, task := range tasks {
		for _, dep := range task.Dependencies {
			if _, ok := ids[dep]; ok {
				blocking++
				break
			}
		}
	}

	return dependencyGraph{total: len(tasks), blocking: blocking}
}

// impact scores a task from its own dependency list. The blocking count is
// collection-wide, so every task with dependencies receives the same score.
func (g dependencyGraph) impact(dependencies []int) float64 {
	if len(dependencies) == 0 {
		return independentScore
	}
	if g.total == 0 {
		return emptyGraphScore
	}
	return math.Max(independentScore, math.Min(1.0, float64(g.blocking)/float64(g.total)*2))
}

// DependencyImpact scores one task's dependency list against the whole collection.
func DependencyImpact(dependencies []int, tasks []domain.Task) float64 {
	return newDependencyGraph(tasks).impact(dependencies)
}

type dfsFrame struct {
	node int
	next int
}

// DetectCycles finds circular dependency chains. Nodes are task positions and
// an edge X->Y means task X depends on task Y; ids outside the collection are
// ignored. Each root gets its own traversal state, and a cycle found again in
// a different rotation is reported once, in the orientation first seen.
func DetectCycles(tasks []domain.Task) []domain.Cycle {
	n := len(tasks)
	adjacency := make([][]int, n)
	for i, task := range tasks {
		for _, dep := range task.Dependencies {
			if dep >= 0 && dep < n {
				adjacency[i] = append(adjacency[i], dep)
			}
		}
	}

	cycles := []domain.Cycle{}
	seen := make(map[string]struct{})

	for root := 0; root < n; root++ {
		visited := make([]bool, n)
		onPath := make(map[int]int)
		path := make([]int, 0, n)
		stack := make([]dfsFrame, 0, n)

		enter := func(node int) {
			if visited[node] {
				if start, ok := onPath[node]; ok {
					cycle := append(domain.Cycle(nil), path[start:]...)
					if len(cycle) > 1 {
						key := cycleKey(cycle)
						if _, dup := seen[key]; !dup {
							seen[key] = struct{}{}
							cycles = append(cycles, cycle)
						}
					}
				}
				return
			}
			visited[node] = true
			onPath[node] = len(path)
			path = append(path, node)
			stack = append(stack, dfsFrame{node: node})
		}

		enter(root)
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(adjacency[top.node]) {
				dep := adjacency[top.node][top.next]
				top.next++
				enter(dep)
				continue
			}
			delete(onPath, top.node)
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}

	return cycles
}

// cycleKey is identical for every rotation of the same cycle. Rotations are
// one cycle: a mutual dependency A<->B must be reported exactly once.
func cycleKey(cycle domain.Cycle) string {
	start := 0
	for i, v := range cycle {
		if v < cycle[start] {
			start = i
		}
	}
	var b strings.Builder
	for i := range cycle {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(cycle[(start+i)%len(cycle)]))
	}
	return b.String()
}
