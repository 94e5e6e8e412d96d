package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"roomhub/backend/internal/model"
)

func setupTestExportService(t *testing.T) (ExportService, *testRepos) {
	t.Helper()
	repos := newTestRepos()
	svc := NewExportService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func TestExportService_ExportBookings(t *testing.T) {
	svc, repos := setupTestExportService(t)

	room := &model.Room{RoomID: "room-1", Name: "3F 大会议室", IsActive: true}
	repos.room.rooms["room-1"] = room
	repos.booking.bookings["booking-1"] = &model.Booking{
		BookingID: "booking-1", RoomID: "room-1", Username: "alice",
		Title: "产品评审", Attendees: "bob,carol",
		StartTime:   time.Date(2026, 8, 3, 14, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC),
		Status:      model.BookingStatusConfirmed,
		BookingType: model.BookingTypeOnly,
		Room:        room,
	}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	buf, filename, err := svc.ExportBookings(context.Background(), from, to)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if filename != "bookings_20260801_20260901.xlsx" {
		t.Errorf("文件名不符，实际: %q", filename)
	}

	// 回读验证表头与数据行
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("读取导出文件失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("预订清单")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望表头 + 1 数据行，实际 %d 行", len(rows))
	}
	if rows[0][0] != "会议室" {
		t.Errorf("表头首列期望 会议室，实际: %q", rows[0][0])
	}
	got := strings.Join(rows[1][:3], "|")
	if got != "3F 大会议室|产品评审|alice" {
		t.Errorf("数据行不符，实际: %q", got)
	}
}

func TestExportService_ExportBookings_EmptyRange(t *testing.T) {
	svc, _ := setupTestExportService(t)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.ExportBookings(context.Background(), from, to)
	if !errors.Is(err, ErrExportNoBookings) {
		t.Errorf("期望 ErrExportNoBookings，实际: %v", err)
	}
}
