package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/queens"
)

// QueensInput is the input schema for the queens_solve tool.
type QueensInput struct {
	Algorithm string `json:"algorithm,omitempty" jsonschema:"ldfs (default) or astar"`
	Board     string `json:"board,omitempty" jsonschema:"starting board as 8 column digits 1-8, one per row; random when empty"`
	Seed      int64  `json:"seed,omitempty" jsonschema:"seed for the random board"`
	MaxNodes  int    `json:"max_nodes,omitempty" jsonschema:"A* node budget (default from settings)"`
}

// QueensOutput is the output schema for the queens_solve tool.
type QueensOutput struct {
	Algorithm        string `json:"algorithm"`
	Initial          string `json:"initial"`
	Solution         string `json:"solution,omitempty"`
	Solved           bool   `json:"solved"`
	Iterations       int    `json:"iterations"`
	TotalNodes       int    `json:"total_nodes"`
	MaxNodesInMemory int    `json:"max_nodes_in_memory"`
	Rendered         string `json:"rendered,omitempty"`
}

// TSPInput is the input schema for the tsp_solve tool.
type TSPInput struct {
	Vertices    int   `json:"vertices,omitempty" jsonschema:"number of vertices (default from settings)"`
	Ants        int   `json:"ants,omitempty" jsonschema:"colony size (default from settings)"`
	Iterations  int   `json:"iterations,omitempty" jsonschema:"iterations of the first round (default from settings)"`
	Rounds      int   `json:"rounds,omitempty" jsonschema:"number of rounds (default 1)"`
	TwoCriteria bool  `json:"two_criteria,omitempty" jsonschema:"use the elitist distance and cost colony"`
	Seed        int64 `json:"seed,omitempty" jsonschema:"random seed"`
}

// TSPOutput is the output schema for the tsp_solve tool.
type TSPOutput struct {
	Seed     int64            `json:"seed"`
	Vertices int              `json:"vertices"`
	Rounds   []TSPRoundOutput `json:"rounds"`
}

// TSPRoundOutput summarises one colony round.
type TSPRoundOutput struct {
	Round        int     `json:"round"`
	Iterations   int     `json:"iterations"`
	Length       float64 `json:"length"`
	GreedyLength float64 `json:"greedy_length"`
	Tour         []int   `json:"tour"`
}

// UserGetInput is the input schema for the user_get tool.
type UserGetInput struct {
	ID int64 `json:"id" jsonschema:"user id"`
}

// UserGetOutput is the output schema for the user_get tool.
type UserGetOutput struct {
	User        domain.User `json:"user"`
	Comparisons int         `json:"comparisons"`
}

// UserPageInput is the input schema for the user_page tool.
type UserPageInput struct {
	Page int `json:"page,omitempty" jsonschema:"page number starting at 1 (default 1)"`
	Size int `json:"size,omitempty" jsonschema:"rows per page (default from settings)"`
}

// UserPageOutput is the output schema for the user_page tool.
type UserPageOutput struct {
	Users []domain.User `json:"users"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
	Total int           `json:"total"`
}

// SortInput is the input schema for the sort_file tool.
type SortInput struct {
	Input    string `json:"input" jsonschema:"file of newline-delimited integers"`
	Output   string `json:"output,omitempty" jsonschema:"sorted output file (default sorted.txt)"`
	MemoryMB int    `json:"memory_mb,omitempty" jsonschema:"run memory budget in megabytes (default from settings)"`
	Verify   bool   `json:"verify,omitempty" jsonschema:"check the output after sorting"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "queens_solve",
		Description: "Solve the eight queens puzzle by depth-limited DFS or A*",
	}, s.handleQueensSolve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tsp_solve",
		Description: "Solve a random travelling salesman instance with ant colony optimisation",
	}, s.handleTSPSolve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "user_get",
		Description: "Look a user up by id through the B-tree index",
	}, s.handleUserGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "user_page",
		Description: "List one page of users in id order",
	}, s.handleUserPage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sort_file",
		Description: "Sort a file of integers with external polyphase merge sort",
	}, s.handleSortFile)
}

// handleQueensSolve handles the queens_solve tool invocation.
func (s *Server) handleQueensSolve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueensInput,
) (*mcp.CallToolResult, QueensOutput, error) {
	if s.ports.Queens == nil {
		return nil, QueensOutput{}, errUnavailable
	}

	req := domain.QueensRequest{
		Algorithm: domain.QueensAlgorithm(input.Algorithm),
		Seed:      input.Seed,
		MaxNodes:  input.MaxNodes,
	}
	if input.Board != "" {
		b, err := domain.ParseBoard(input.Board)
		if err != nil {
			return nil, QueensOutput{}, err
		}
		req.Board = &b
	}

	result, err := s.ports.Queens.Solve(ctx, req, nil)
	// an exhausted search is a result, not a tool failure
	if err != nil && (result == nil || !gaveUp(err)) {
		return nil, QueensOutput{}, err
	}

	output := QueensOutput{
		Algorithm:        string(result.Algorithm),
		Initial:          result.Initial.String(),
		Solved:           result.Solved,
		Iterations:       result.Stats.Iterations,
		TotalNodes:       result.Stats.TotalNodes,
		MaxNodesInMemory: result.Stats.MaxNodesInMemory,
	}
	if result.Solved {
		output.Solution = result.Solution.String()
		output.Rendered = queens.Render(result.Solution)
	}
	return nil, output, nil
}

func gaveUp(err error) bool {
	return errors.Is(err, domain.ErrSearchExhausted) || errors.Is(err, domain.ErrNoSolution)
}

// handleTSPSolve handles the tsp_solve tool invocation.
func (s *Server) handleTSPSolve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TSPInput,
) (*mcp.CallToolResult, TSPOutput, error) {
	if s.ports.TSP == nil {
		return nil, TSPOutput{}, errUnavailable
	}

	req := domain.TSPRequest{
		Vertices:    input.Vertices,
		TwoCriteria: input.TwoCriteria,
		Rounds:      input.Rounds,
		Seed:        input.Seed,
	}
	if input.Ants > 0 || input.Iterations > 0 {
		req.Params = domain.ClassicACOParams()
		if input.TwoCriteria {
			req.Params = domain.ElitistACOParams()
		}
		if input.Ants > 0 {
			req.Params.Ants = input.Ants
		}
		if input.Iterations > 0 {
			req.Params.Iterations = input.Iterations
		}
	}

	report, err := s.ports.TSP.Solve(ctx, req, nil)
	if err != nil {
		return nil, TSPOutput{}, err
	}

	output := TSPOutput{
		Seed:     report.Seed,
		Vertices: report.Vertices,
		Rounds:   make([]TSPRoundOutput, len(report.Rounds)),
	}
	for i, r := range report.Rounds {
		output.Rounds[i] = TSPRoundOutput{
			Round:        r.Round,
			Iterations:   r.Params.Iterations,
			Length:       r.Result.Length,
			GreedyLength: r.Result.GreedyLength,
			Tour:         r.Result.Tour,
		}
	}
	return nil, output, nil
}

// handleUserGet handles the user_get tool invocation.
func (s *Server) handleUserGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UserGetInput,
) (*mcp.CallToolResult, UserGetOutput, error) {
	lookup, err := s.ports.Users.Get(ctx, input.ID)
	if err != nil {
		return nil, UserGetOutput{}, err
	}
	return nil, UserGetOutput{User: lookup.User, Comparisons: lookup.Comparisons}, nil
}

// handleUserPage handles the user_page tool invocation.
func (s *Server) handleUserPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UserPageInput,
) (*mcp.CallToolResult, UserPageOutput, error) {
	page := input.Page
	if page <= 0 {
		page = 1
	}

	p, err := s.ports.Users.Page(ctx, page-1, input.Size)
	if err != nil {
		return nil, UserPageOutput{}, err
	}

	users := p.Users
	if users == nil {
		users = []domain.User{}
	}
	return nil, UserPageOutput{Users: users, Page: p.Index + 1, Pages: p.Pages, Total: p.Total}, nil
}

// handleSortFile handles the sort_file tool invocation.
func (s *Server) handleSortFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SortInput,
) (*mcp.CallToolResult, domain.SortReport, error) {
	if s.ports.Sort == nil {
		return nil, domain.SortReport{}, errUnavailable
	}
	if input.MemoryMB < 0 {
		return nil, domain.SortReport{}, fmt.Errorf("%w: memory_mb must not be negative", domain.ErrInvalidInput)
	}

	report, err := s.ports.Sort.Sort(ctx, domain.SortOptions{
		Input:       input.Input,
		Output:      input.Output,
		MemoryBytes: int64(input.MemoryMB) * 1024 * 1024,
		Verify:      input.Verify,
	})
	if err != nil {
		return nil, domain.SortReport{}, err
	}
	return nil, *report, nil
}
