package session

import (
	"context"

	"github.com/roach88/graphsession/internal/graphdriver"
)

// fakeDriver records the text of every statement run against it, in
// order, without touching real storage. It is enough to exercise
// Session's commit ordering and error-propagation paths.
type fakeDriver struct {
	ran      []string
	failOn   string
	closed   bool
	lastTx   *fakeTx
}

func (d *fakeDriver) BeginTx(context.Context) (graphdriver.Tx, error) {
	tx := &fakeTx{driver: d, open: true}
	d.lastTx = tx
	return tx, nil
}

func (d *fakeDriver) Close(context.Context) error {
	d.closed = true
	return nil
}

type fakeTx struct {
	driver    *fakeDriver
	open      bool
	succeeded bool
	failed    bool
}

func (t *fakeTx) Run(_ context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	t.driver.ran = append(t.driver.ran, stmt.Text)
	if t.driver.failOn != "" && stmt.Text == t.driver.failOn {
		return nil, errFakeStatement
	}
	return &fakeRecordStream{}, nil
}

func (t *fakeTx) Success(context.Context) error {
	t.succeeded = true
	t.open = false
	return nil
}

func (t *fakeTx) Failure(context.Context) error {
	t.failed = true
	t.open = false
	return nil
}

func (t *fakeTx) Close(context.Context) error {
	t.open = false
	return nil
}

func (t *fakeTx) IsOpen() bool { return t.open }

type fakeRecordStream struct{}

func (*fakeRecordStream) Next(context.Context) (graphdriver.Record, bool, error) { return nil, false, nil }
func (*fakeRecordStream) Close() error                                           { return nil }

var errFakeStatement = fakeError("fake driver: statement rejected")

type fakeError string

func (e fakeError) Error() string { return string(e) }
