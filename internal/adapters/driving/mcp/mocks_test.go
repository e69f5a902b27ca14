package mcp

import (
	"context"
	"io"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// mockUserService is a mock implementation of driving.UserService.
type mockUserService struct {
	lookup *domain.UserLookup
	page   *domain.UserPage
	csv    string
	err    error

	gotIndex int
	gotSize  int
}

func (m *mockUserService) Open(_ context.Context) error { return m.err }

func (m *mockUserService) Create(_ context.Context, draft domain.User) (*domain.User, error) {
	return &draft, m.err
}

func (m *mockUserService) Get(_ context.Context, _ int64) (*domain.UserLookup, error) {
	return m.lookup, m.err
}

func (m *mockUserService) Update(_ context.Context, _ domain.User) error { return m.err }

func (m *mockUserService) Delete(_ context.Context, _ int64) error { return m.err }

func (m *mockUserService) Count(_ context.Context) (int, error) { return 0, m.err }

func (m *mockUserService) Page(_ context.Context, index, size int) (*domain.UserPage, error) {
	m.gotIndex, m.gotSize = index, size
	return m.page, m.err
}

func (m *mockUserService) Generate(_ context.Context, n int) (int, error) { return n, m.err }

func (m *mockUserService) Import(_ context.Context, _ io.Reader) (int, error) { return 0, m.err }

func (m *mockUserService) Export(_ context.Context, w io.Writer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	_, err := io.WriteString(w, m.csv)
	return 0, err
}

func (m *mockUserService) Clear(_ context.Context) error { return m.err }

// mockQueensService is a mock implementation of driving.QueensService.
type mockQueensService struct {
	SolveFunc func(ctx context.Context, req domain.QueensRequest) (*domain.QueensResult, error)
}

func (m *mockQueensService) Solve(
	ctx context.Context,
	req domain.QueensRequest,
	_ func(domain.Board),
) (*domain.QueensResult, error) {
	return m.SolveFunc(ctx, req)
}

// mockTSPService is a mock implementation of driving.TSPService.
type mockTSPService struct {
	SolveFunc func(ctx context.Context, req domain.TSPRequest) (*domain.TSPReport, error)
}

func (m *mockTSPService) Solve(
	ctx context.Context,
	req domain.TSPRequest,
	_ func(int, domain.IterationStat),
) (*domain.TSPReport, error) {
	return m.SolveFunc(ctx, req)
}

func (m *mockTSPService) Tune(
	_ context.Context,
	_ domain.TuneRequest,
	_ func(domain.Trial),
) (*domain.TuneResult, error) {
	return &domain.TuneResult{}, nil
}

// mockSortService is a mock implementation of driving.SortService.
type mockSortService struct {
	SortFunc func(ctx context.Context, opts domain.SortOptions) (*domain.SortReport, error)
}

func (m *mockSortService) Generate(_ context.Context, path string, _ int, seed int64) (*domain.GenerateReport, error) {
	return &domain.GenerateReport{Path: path, Seed: seed}, nil
}

func (m *mockSortService) Sort(ctx context.Context, opts domain.SortOptions) (*domain.SortReport, error) {
	return m.SortFunc(ctx, opts)
}

func (m *mockSortService) Verify(_ context.Context, _ string) (*domain.VerifyReport, error) {
	return &domain.VerifyReport{Sorted: true}, nil
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs []domain.Run
	err  error

	gotFilter domain.RunFilter
}

func (m *mockHistoryService) List(_ context.Context, filter domain.RunFilter) ([]domain.Run, error) {
	m.gotFilter = filter
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Clear(_ context.Context) (int, error) {
	return len(m.runs), m.err
}
