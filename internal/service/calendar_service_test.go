package service

import (
	"context"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"roomhub/backend/internal/model"
)

func setupTestCalendarService(t *testing.T) (CalendarService, *testRepos) {
	t.Helper()
	repos := newTestRepos()
	svc := NewCalendarService(repos.toRepository(), zap.NewNop())
	svc.(*calendarService).nowFunc = func() time.Time {
		return time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	}
	return svc, repos
}

func TestCalendarService_ExportUserFeed(t *testing.T) {
	svc, repos := setupTestCalendarService(t)

	room := &model.Room{RoomID: "room-1", Name: "3F 大会议室", IsActive: true}
	repos.booking.bookings["booking-1"] = &model.Booking{
		BookingID: "booking-1", RoomID: "room-1", Username: "alice",
		Title: "产品评审", Content: "评审 Q3 路线图",
		StartTime: time.Date(2026, 8, 5, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 8, 5, 15, 0, 0, 0, time.UTC),
		Status:    model.BookingStatusConfirmed,
		Room:      room,
	}
	// 他人的预订与已取消的预订不应出现
	repos.booking.bookings["booking-2"] = &model.Booking{
		BookingID: "booking-2", RoomID: "room-1", Username: "bob",
		Title:     "部门例会",
		StartTime: time.Date(2026, 8, 6, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 8, 6, 15, 0, 0, 0, time.UTC),
		Status:    model.BookingStatusConfirmed,
	}
	repos.booking.bookings["booking-3"] = &model.Booking{
		BookingID: "booking-3", RoomID: "room-1", Username: "alice",
		Title:     "已取消的会",
		StartTime: time.Date(2026, 8, 7, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 8, 7, 15, 0, 0, 0, time.UTC),
		Status:    model.BookingStatusCancelled,
	}

	feed, err := svc.ExportUserFeed(context.Background(), "alice")
	if err != nil {
		t.Fatalf("导出订阅源失败: %v", err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("订阅源不是合法 ICS: %v", err)
	}

	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("期望 1 个 VEVENT，实际 %d 个", len(events))
	}
	evt := events[0]
	if evt.Id() != "booking-1" {
		t.Errorf("UID 期望 booking-1，实际: %q", evt.Id())
	}
	if got := evt.GetProperty(ics.ComponentPropertySummary).Value; got != "产品评审" {
		t.Errorf("SUMMARY 期望 产品评审，实际: %q", got)
	}
	if got := evt.GetProperty(ics.ComponentPropertyLocation).Value; got != "3F 大会议室" {
		t.Errorf("LOCATION 期望 3F 大会议室，实际: %q", got)
	}
}

func TestCalendarService_ExportUserFeed_EmptyIsValid(t *testing.T) {
	svc, _ := setupTestCalendarService(t)

	feed, err := svc.ExportUserFeed(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("空订阅源导出失败: %v", err)
	}
	if _, err := ics.ParseCalendar(strings.NewReader(feed)); err != nil {
		t.Errorf("空订阅源也应是合法 ICS: %v", err)
	}
}
