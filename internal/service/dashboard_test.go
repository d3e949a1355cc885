package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/domain/visitor"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/mocks"
	"github.com/visitrack/frontdesk/internal/testutil"
)

func newTestDashboard(t *testing.T) (*DashboardService, *mocks.MockVisitorDirectory) {
	t.Helper()
	dir := mocks.NewMockVisitorDirectory(gomock.NewController(t))
	loader := NewVisitorLoader(VisitorLoaderOptions{Directory: dir})
	return NewDashboardService(DashboardServiceOptions{Loader: loader, Directory: dir}), dir
}

func sampleList() []visitor.Visitor {
	return []visitor.Visitor{
		testutil.NewVisitor(3).Named("Reyes", "Maria", "L").WithPurpose("Meeting", "").Build(),
		testutil.NewVisitor(2).Named("Cruz", "Ana", "").WithDepartment(visitor.Other, "Library").Build(),
		testutil.NewVisitor(1).Named("Santos", "Ben", "").Build(),
	}
}

func TestDashboardService_Overview(t *testing.T) {
	defer goleak.VerifyNone(t)
	svc, dir := newTestDashboard(t)

	dir.EXPECT().ListVisitors(gomock.Any()).Return(sampleList(), nil)
	dir.EXPECT().ActiveVisitorAccounts(gomock.Any(), testCreds).Return([]user.User{{ID: 1}, {ID: 2}}, nil)

	ov, err := svc.Overview(context.Background(), "s1", testCreds, "")
	require.NoError(t, err)
	assert.Equal(t, 3, ov.Total)
	assert.Equal(t, []int{3, 2, 1}, visitorIDs(ov.Visitors))
	require.NotNil(t, ov.ActiveAccounts)
	assert.Equal(t, 2, *ov.ActiveAccounts)
}

func TestDashboardService_OverviewTotalCountsFilteredView(t *testing.T) {
	svc, dir := newTestDashboard(t)

	dir.EXPECT().ListVisitors(gomock.Any()).Return(sampleList(), nil)

	ov, err := svc.Overview(context.Background(), "s1", nil, "library")
	require.NoError(t, err)
	assert.Equal(t, "library", ov.Term)
	assert.Equal(t, 1, ov.Total)
	assert.Equal(t, []int{2}, visitorIDs(ov.Visitors))
	assert.Nil(t, ov.ActiveAccounts, "anonymous views skip the account count")
}

func TestDashboardService_ActiveCountIsBestEffort(t *testing.T) {
	svc, dir := newTestDashboard(t)

	dir.EXPECT().ListVisitors(gomock.Any()).Return(sampleList(), nil)
	dir.EXPECT().ActiveVisitorAccounts(gomock.Any(), gomock.Any()).Return(nil, apperrors.Unauthorized("expired"))

	ov, err := svc.Overview(context.Background(), "s1", testCreds, "")
	require.NoError(t, err)
	assert.Equal(t, 3, ov.Total)
	assert.Nil(t, ov.ActiveAccounts)
}

func TestDashboardService_ListFailureIsAnError(t *testing.T) {
	svc, dir := newTestDashboard(t)

	dir.EXPECT().ListVisitors(gomock.Any()).Return(nil, apperrors.Upstream(502, "Bad Gateway"))
	dir.EXPECT().ActiveVisitorAccounts(gomock.Any(), gomock.Any()).Return([]user.User{}, nil).AnyTimes()

	ov, err := svc.Overview(context.Background(), "s1", testCreds, "")
	require.Error(t, err)
	assert.Nil(t, ov)
	assert.True(t, apperrors.IsUpstream(err))
}

func visitorIDs(vs []visitor.Visitor) []int {
	ids := make([]int, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.ID)
	}
	return ids
}
