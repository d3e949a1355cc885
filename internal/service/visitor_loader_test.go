package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/visitrack/frontdesk/internal/domain/visitor"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/mocks"
	"github.com/visitrack/frontdesk/internal/testutil"
)

func TestVisitorLoader_Load(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctrl := gomock.NewController(t)
	dir := mocks.NewMockVisitorDirectory(ctrl)
	loader := NewVisitorLoader(VisitorLoaderOptions{Directory: dir})

	want := []visitor.Visitor{testutil.NewVisitor(2).Build(), testutil.NewVisitor(1).Build()}
	dir.EXPECT().ListVisitors(gomock.Any()).Return(want, nil)

	got, err := loader.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVisitorLoader_LoadEmptyIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockVisitorDirectory(ctrl)
	loader := NewVisitorLoader(VisitorLoaderOptions{Directory: dir})

	dir.EXPECT().ListVisitors(gomock.Any()).Return([]visitor.Visitor{}, nil)

	got, err := loader.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestVisitorLoader_LoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockVisitorDirectory(ctrl)
	loader := NewVisitorLoader(VisitorLoaderOptions{Directory: dir})

	dir.EXPECT().ListVisitors(gomock.Any()).Return(nil, apperrors.Upstream(500, "Internal Server Error"))

	got, err := loader.Load(context.Background(), "s1")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestVisitorLoader_NewerLoadSupersedesOlder(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctrl := gomock.NewController(t)
	dir := mocks.NewMockVisitorDirectory(ctrl)
	loader := NewVisitorLoader(VisitorLoaderOptions{Directory: dir})

	started := make(chan struct{})
	fresh := []visitor.Visitor{testutil.NewVisitor(7).Build()}

	gomock.InOrder(
		dir.EXPECT().ListVisitors(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]visitor.Visitor, error) {
			close(started)
			<-ctx.Done()
			return nil, apperrors.MapTransportError(ctx.Err())
		}),
		dir.EXPECT().ListVisitors(gomock.Any()).Return(fresh, nil),
	)

	type result struct {
		visitors []visitor.Visitor
		err      error
	}
	first := make(chan result, 1)
	go func() {
		v, err := loader.Load(context.Background(), "s1")
		first <- result{v, err}
	}()
	<-started

	got, err := loader.Refresh(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	old := <-first
	assert.Nil(t, old.visitors)
	assert.ErrorIs(t, old.err, ErrSuperseded)
}

func TestVisitorLoader_KeysAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctrl := gomock.NewController(t)
	dir := mocks.NewMockVisitorDirectory(ctrl)
	loader := NewVisitorLoader(VisitorLoaderOptions{Directory: dir})

	started := make(chan struct{})
	release := make(chan struct{})
	slow := []visitor.Visitor{testutil.NewVisitor(1).Build()}

	gomock.InOrder(
		dir.EXPECT().ListVisitors(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]visitor.Visitor, error) {
			close(started)
			select {
			case <-release:
				return slow, nil
			case <-ctx.Done():
				return nil, errors.New("unexpected cancel")
			}
		}),
		dir.EXPECT().ListVisitors(gomock.Any()).Return([]visitor.Visitor{}, nil),
	)

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(), "a")
		done <- err
	}()
	<-started

	_, err := loader.Load(context.Background(), "b")
	require.NoError(t, err)

	close(release)
	assert.NoError(t, <-done)
}

func TestVisitorLoader_CallerCancelIsNotSupersede(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockVisitorDirectory(ctrl)
	loader := NewVisitorLoader(VisitorLoaderOptions{Directory: dir})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir.EXPECT().ListVisitors(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]visitor.Visitor, error) {
		return nil, apperrors.MapTransportError(ctx.Err())
	})

	_, err := loader.Load(ctx, "s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSuperseded)
	assert.True(t, apperrors.IsCanceled(err))
}

func TestVisitorLoader_Filter(t *testing.T) {
	loader := NewVisitorLoader(VisitorLoaderOptions{Directory: mocks.NewMockVisitorDirectory(gomock.NewController(t))})
	visitors := []visitor.Visitor{
		testutil.NewVisitor(1).Named("Doe", "Jane", "Q").Build(),
		testutil.NewVisitor(2).Named("Smith", "Al", "").Build(),
	}
	got := loader.Filter(visitors, "doe")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}
