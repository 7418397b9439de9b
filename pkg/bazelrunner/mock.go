package bazelrunner

import "context"

// MockExecutor is a test double recording invocations and returning
// canned output, modeled on the teacher's pkg/bazel/executor_mock.go.
type MockExecutor struct {
	Responses map[string][]byte // keyed by joined args
	Calls     [][]string
	Err       error
}

func (m *MockExecutor) RunQuery(ctx context.Context, workspacePath string, args []string) ([]byte, error) {
	m.Calls = append(m.Calls, append([]string{}, args...))
	if m.Err != nil {
		return nil, m.Err
	}
	key := joinArgs(args)
	return m.Responses[key], nil
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
