// Package mocks provides mock implementations for testing the gateway's
// notification ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockNotificationRepository(ctrl)
//	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for NotificationRepository interface from internal/ports.
// This creates MockNotificationRepository with methods for all NotificationRepository interface methods:
// ListForUser, Insert, MarkRead, MarkAllRead
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notification_repository_mock.go github.com/stayseek/gateway/internal/ports NotificationRepository

// Generate mock for NotificationFeed interface from internal/ports.
// This creates MockNotificationFeed with methods for all NotificationFeed interface methods:
// Subscribe, Publish
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notification_feed_mock.go github.com/stayseek/gateway/internal/ports NotificationFeed
