package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"roomhub/backend/internal/dto"
	"roomhub/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestRoomService(t *testing.T) (RoomService, *testRepos) {
	t.Helper()
	repos := newTestRepos()
	svc := NewRoomService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func TestRoomService_CreateAndGet(t *testing.T) {
	svc, _ := setupTestRoomService(t)

	resp, err := svc.Create(context.Background(), &dto.CreateRoomRequest{
		Name: "3F 大会议室", Location: "3 楼东侧", Capacity: 12,
	}, "admin")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if !resp.IsActive {
		t.Error("新会议室应默认启用")
	}

	got, err := svc.GetByID(context.Background(), resp.RoomID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.Name != "3F 大会议室" || got.Capacity != 12 {
		t.Errorf("查询结果不符，实际: %+v", got)
	}
}

func TestRoomService_ListFiltersInactive(t *testing.T) {
	svc, repos := setupTestRoomService(t)
	repos.room.rooms["room-1"] = &model.Room{RoomID: "room-1", Name: "A", IsActive: true}
	repos.room.rooms["room-2"] = &model.Room{RoomID: "room-2", Name: "B", IsActive: false}

	active, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(active) != 1 || active[0].RoomID != "room-1" {
		t.Errorf("期望仅启用房间，实际: %+v", active)
	}

	all, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("期望含停用房间共 2 个，实际 %d 个", len(all))
	}
}

// 删除是软删除：会议室从所有查询中消失，但引用它的历史预订不受影响
func TestRoomService_Delete_HidesRoomKeepsBookings(t *testing.T) {
	svc, repos := setupTestRoomService(t)
	repos.room.rooms["room-1"] = &model.Room{RoomID: "room-1", Name: "A", IsActive: true}
	repos.booking.bookings["booking-1"] = &model.Booking{
		BookingID: "booking-1", RoomID: "room-1", Username: "alice",
		StartTime: time.Date(2026, 8, 3, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC),
		Status:    model.BookingStatusConfirmed,
	}

	if err := svc.Delete(context.Background(), "room-1"); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), "room-1"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("删除后查询期望 ErrRoomNotFound，实际: %v", err)
	}
	rooms, _ := svc.List(context.Background(), true)
	if len(rooms) != 0 {
		t.Errorf("删除后列表应为空，实际: %+v", rooms)
	}

	// 历史预订原样保留
	if _, ok := repos.booking.bookings["booking-1"]; !ok {
		t.Error("删除会议室不应影响历史预订")
	}
}

func TestRoomService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTestRoomService(t)

	if err := svc.Delete(context.Background(), "no-such-room"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
}

func TestRoomService_Update_ToggleActive(t *testing.T) {
	svc, repos := setupTestRoomService(t)
	repos.room.rooms["room-1"] = &model.Room{RoomID: "room-1", Name: "A", Capacity: 6, IsActive: true}

	inactive := false
	resp, err := svc.Update(context.Background(), "room-1", &dto.UpdateRoomRequest{
		Name: "A（装修中）", Capacity: 6, IsActive: &inactive,
	}, "admin")
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if resp.IsActive {
		t.Error("期望停用，实际仍启用")
	}
	if resp.Name != "A（装修中）" {
		t.Errorf("名称未更新，实际: %q", resp.Name)
	}

	// IsActive 为 nil 时保持原值
	resp, err = svc.Update(context.Background(), "room-1", &dto.UpdateRoomRequest{
		Name: "A", Capacity: 8,
	}, "admin")
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if resp.IsActive {
		t.Error("未指定 is_active 时应保持停用")
	}
}
