// Package mocks provides mock implementations of the backend-facing ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockUserDirectory(ctrl)
//	users.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(created, nil)
package mocks

// Generate mock for UserDirectory interface from internal/ports package.
// This creates MockUserDirectory with methods: CreateUser, ListUsers, UpdateUser
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_directory_mock.go github.com/visitrack/frontdesk/internal/ports UserDirectory

// Generate mock for VisitorDirectory interface from internal/ports package.
// This creates MockVisitorDirectory with methods: ListVisitors, RegisterVisitor, ActiveVisitorAccounts
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=visitor_directory_mock.go github.com/visitrack/frontdesk/internal/ports VisitorDirectory

// Generate mock for DraftStore interface from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=draft_store_mock.go github.com/visitrack/frontdesk/internal/ports DraftStore

// Generate mock for Pinger interface from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=pinger_mock.go github.com/visitrack/frontdesk/internal/ports Pinger
