package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roomhub/backend/internal/dto"
	"roomhub/backend/internal/model"
	"roomhub/backend/internal/repository"
)

// ── 预订模块业务错误 ──

var (
	ErrBookingNotFound = errors.New("预订不存在")
	ErrRoomNotFound    = errors.New("会议室不存在或已停用")
	ErrBookingConflict = errors.New("预订时间段与已有预订冲突")
)

const bookingTimeLayout = "2006-01-02 15:04"

// pgExclusionViolation Postgres 排他约束冲突的 SQLSTATE
const pgExclusionViolation = "23P01"

// isExclusionConflict 判断写入错误是否为存储层排他约束兜底触发
// 跨实例并发时房间锁失效，对端先写入会让本端的 INSERT 撞上约束
func isExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// BookingService 预订业务接口
//
// 创建/更新对整批生成的预订做"先查冲突、后写入"的全有或全无处理：
// 任一时间段冲突则整批拒绝，不留半写的序列。
type BookingService interface {
	// Create 提交预订：展开 → 冲突检测 → 持久化 → 通知分发
	Create(ctx context.Context, req *dto.CreateBookingRequest, callerUsername string) (*dto.CreateBookingResponse, error)
	// Update 更新指定预订；DAILY/WEEKLY 请求会在原条目之外追加展开出的新条目
	Update(ctx context.Context, id string, req *dto.UpdateBookingRequest, callerUsername string) (*dto.CreateBookingResponse, error)
	// Delete 删除预订：先读取取得归属人与参会人，删除后补发取消通知
	Delete(ctx context.Context, id string) error
	// IsConflict 检测单个候选时间段是否与已有预订冲突
	IsConflict(ctx context.Context, req *dto.ConflictCheckRequest) (bool, error)
	// GetByID 查询单条预订
	GetByID(ctx context.Context, id string) (*dto.BookingResponse, error)
	// ListOngoing 用户当前进行中的预订
	ListOngoing(ctx context.Context, username string) ([]dto.BookingResponse, error)
	// ListUpcoming 用户即将开始的预订
	ListUpcoming(ctx context.Context, username string) ([]dto.BookingResponse, error)
	// List 条件分页查询
	List(ctx context.Context, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error)
}

type bookingService struct {
	repo     *repository.Repository
	notifSvc NotificationService
	logger   *zap.Logger
	nowFunc  func() time.Time

	// 按会议室串行化"检查-写入"临界区，堵住并发提交同房间时
	// 双双通过冲突检查的竞态；跨实例场景由存储层排他约束兜底
	lockMu    sync.Mutex
	roomLocks map[string]*sync.Mutex
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(repo *repository.Repository, notifSvc NotificationService, logger *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		notifSvc:  notifSvc,
		logger:    logger,
		nowFunc:   time.Now,
		roomLocks: make(map[string]*sync.Mutex),
	}
}

// roomLock 取得指定会议室的互斥锁（懒创建）
func (s *bookingService) roomLock(roomID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	mu, ok := s.roomLocks[roomID]
	if !ok {
		mu = &sync.Mutex{}
		s.roomLocks[roomID] = mu
	}
	return mu
}

// ═══════════════════════════════════════════════════════════
// Create — 提交预订
// ═══════════════════════════════════════════════════════════

func (s *bookingService) Create(ctx context.Context, req *dto.CreateBookingRequest, callerUsername string) (*dto.CreateBookingResponse, error) {
	booking := &model.Booking{
		RoomID:      req.RoomID,
		Username:    callerUsername,
		Title:       req.Title,
		Attendees:   req.Attendees,
		Content:     req.Content,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.BookingStatusConfirmed,
		BookingType: model.BookingType(req.BookingType),
		Weekdays:    req.Weekdays,
	}

	persisted, err := s.acceptBatch(ctx, booking)
	if err != nil {
		return nil, err
	}

	// 通知分发：落库成功后逐条发出，失败不回滚业务结果
	for i := range persisted {
		s.notifyBookingEvent(ctx, &persisted[i],
			"New Meeting Created", "You have created a new meeting: ",
			"Meeting Invitation", "You have been invited to a meeting: ",
		)
	}

	return toCreateResponse(persisted), nil
}

// ═══════════════════════════════════════════════════════════
// Update — 更新预订
// ═══════════════════════════════════════════════════════════

func (s *bookingService) Update(ctx context.Context, id string, req *dto.UpdateBookingRequest, callerUsername string) (*dto.CreateBookingResponse, error) {
	existing, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("查询预订失败", zap.String("booking_id", id), zap.Error(err))
		return nil, err
	}

	booking := &model.Booking{
		RoomID:      req.RoomID,
		Username:    existing.Username,
		Title:       req.Title,
		Attendees:   req.Attendees,
		Content:     req.Content,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      existing.Status,
		BookingType: model.BookingType(req.BookingType),
		Weekdays:    req.Weekdays,
	}

	persisted, err := s.updateBatch(ctx, existing, booking)
	if err != nil {
		return nil, err
	}

	for i := range persisted {
		s.notifyBookingEvent(ctx, &persisted[i],
			"Meeting Updated", "A meeting has been updated: ",
			"Meeting Update", "A meeting you are attending has been updated: ",
		)
	}

	return toCreateResponse(persisted), nil
}

// ═══════════════════════════════════════════════════════════
// Delete — 删除预订
// ═══════════════════════════════════════════════════════════

func (s *bookingService) Delete(ctx context.Context, id string) error {
	// 先读取，拿到归属人与参会人再删除
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("查询预订失败", zap.String("booking_id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Booking.Delete(ctx, id); err != nil {
		s.logger.Error("删除预订失败", zap.String("booking_id", id), zap.Error(err))
		return err
	}

	// 删除已生效；取消通知失败只记日志，不回滚
	s.notifyBookingEvent(ctx, booking,
		"Meeting Cancelled", "Your meeting has been cancelled: ",
		"Meeting Cancellation", "A meeting you were attending has been cancelled: ",
	)

	return nil
}

// acceptBatch 展开并整批受理：全部通过冲突检查才写入
func (s *bookingService) acceptBatch(ctx context.Context, booking *model.Booking) ([]model.Booking, error) {
	if !booking.StartTime.Before(booking.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.ensureRoomActive(ctx, booking.RoomID); err != nil {
		return nil, err
	}

	batch, err := expandBooking(booking, s.nowFunc())
	if err != nil {
		return nil, err
	}

	mu := s.roomLock(booking.RoomID)
	mu.Lock()
	defer mu.Unlock()

	// 先对整批做冲突检查，任何一条冲突则全部拒绝
	for i := range batch {
		conflicts, err := s.repo.Booking.FindConflicting(ctx, batch[i].RoomID, batch[i].StartTime, batch[i].EndTime, "")
		if err != nil {
			s.logger.Error("冲突检查失败", zap.String("room_id", batch[i].RoomID), zap.Error(err))
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, ErrBookingConflict
		}
	}

	// 全部无冲突后逐条写入；任一条失败则撤销本批已写入的条目
	for i := range batch {
		if err := s.repo.Booking.Create(ctx, &batch[i]); err != nil {
			s.rollbackCreated(ctx, batch[:i])
			if isExclusionConflict(err) {
				return nil, ErrBookingConflict
			}
			s.logger.Error("预订落库失败", zap.String("room_id", batch[i].RoomID), zap.Error(err))
			return nil, err
		}
	}

	return batch, nil
}

// rollbackCreated 撤销本批已写入的条目，保持全有或全无语义
// 补偿删除失败只记日志（此时已在错误路径上，没有更好的出路）
func (s *bookingService) rollbackCreated(ctx context.Context, created []model.Booking) {
	for i := range created {
		if err := s.repo.Booking.Delete(ctx, created[i].BookingID); err != nil {
			s.logger.Error("预订补偿删除失败",
				zap.String("booking_id", created[i].BookingID),
				zap.Error(err),
			)
		}
	}
}

// updateBatch 更新原条目并追加展开出的其余条目；同样整批检查后才写
func (s *bookingService) updateBatch(ctx context.Context, existing *model.Booking, booking *model.Booking) ([]model.Booking, error) {
	if !booking.StartTime.Before(booking.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.ensureRoomActive(ctx, booking.RoomID); err != nil {
		return nil, err
	}

	batch, err := expandBooking(booking, s.nowFunc())
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		// WEEKLY 且星期集合未命中日期范围内任何一天：合法的空展开，原条目不动
		return batch, nil
	}

	mu := s.roomLock(booking.RoomID)
	mu.Lock()
	defer mu.Unlock()

	// 冲突检查排除被更新条目自身（自重叠不算冲突）
	for i := range batch {
		conflicts, err := s.repo.Booking.FindConflicting(ctx, batch[i].RoomID, batch[i].StartTime, batch[i].EndTime, existing.BookingID)
		if err != nil {
			s.logger.Error("冲突检查失败", zap.String("room_id", batch[i].RoomID), zap.Error(err))
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, ErrBookingConflict
		}
	}

	// 第一条覆盖原条目，其余条目新增
	batch[0].BookingID = existing.BookingID
	if err := s.repo.Booking.Update(ctx, &batch[0]); err != nil {
		if isExclusionConflict(err) {
			return nil, ErrBookingConflict
		}
		s.logger.Error("更新预订失败", zap.String("booking_id", existing.BookingID), zap.Error(err))
		return nil, err
	}
	for i := 1; i < len(batch); i++ {
		if err := s.repo.Booking.Create(ctx, &batch[i]); err != nil {
			// 撤销已追加的条目并把原条目写回，保持全有或全无语义
			s.rollbackCreated(ctx, batch[1:i])
			if restoreErr := s.repo.Booking.Update(ctx, existing); restoreErr != nil {
				s.logger.Error("预订原条目回写失败",
					zap.String("booking_id", existing.BookingID),
					zap.Error(restoreErr),
				)
			}
			if isExclusionConflict(err) {
				return nil, ErrBookingConflict
			}
			s.logger.Error("预订落库失败", zap.String("room_id", batch[i].RoomID), zap.Error(err))
			return nil, err
		}
	}

	return batch, nil
}

// ensureRoomActive 校验会议室存在且启用
func (s *bookingService) ensureRoomActive(ctx context.Context, roomID string) error {
	room, err := s.repo.Room.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询会议室失败", zap.String("room_id", roomID), zap.Error(err))
		return err
	}
	if !room.IsActive {
		return ErrRoomNotFound
	}
	return nil
}

// ═══════════════════════════════════════════════════════════
// 冲突检测与查询
// ═══════════════════════════════════════════════════════════

func (s *bookingService) IsConflict(ctx context.Context, req *dto.ConflictCheckRequest) (bool, error) {
	conflicts, err := s.repo.Booking.FindConflicting(ctx, req.RoomID, req.StartTime, req.EndTime, req.ExcludeID)
	if err != nil {
		s.logger.Error("冲突检查失败", zap.String("room_id", req.RoomID), zap.Error(err))
		return false, err
	}
	return len(conflicts) > 0, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	resp := dto.ToBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListOngoing(ctx context.Context, username string) ([]dto.BookingResponse, error) {
	bookings, err := s.repo.Booking.ListOngoing(ctx, username, s.nowFunc())
	if err != nil {
		s.logger.Error("查询进行中预订失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return dto.ToBookingResponses(bookings), nil
}

func (s *bookingService) ListUpcoming(ctx context.Context, username string) ([]dto.BookingResponse, error) {
	bookings, err := s.repo.Booking.ListUpcoming(ctx, username, s.nowFunc())
	if err != nil {
		s.logger.Error("查询即将开始预订失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return dto.ToBookingResponses(bookings), nil
}

func (s *bookingService) List(ctx context.Context, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	bookings, total, err := s.repo.Booking.List(ctx, repository.BookingCriteria{
		RoomID:   req.RoomID,
		Username: req.Username,
		Status:   req.Status,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	})
	if err != nil {
		s.logger.Error("查询预订列表失败", zap.Error(err))
		return nil, 0, err
	}

	return dto.ToBookingResponses(bookings), total, nil
}

// ═══════════════════════════════════════════════════════════
// 通知分发
// ═══════════════════════════════════════════════════════════

// notifyBookingEvent 为一条预订发出归属人通知与参会人通知
// 任何分发失败只记日志，不影响业务结果
func (s *bookingService) notifyBookingEvent(ctx context.Context, b *model.Booking, ownerTitle, ownerPrefix, attendeeTitle, attendeePrefix string) {
	timeRange := fmt.Sprintf("\nTime: %s to %s",
		b.StartTime.Format(bookingTimeLayout),
		b.EndTime.Format(bookingTimeLayout),
	)

	// 归属人通知
	_, err := s.notifSvc.Create(ctx, &model.Notification{
		Receiver: b.Username,
		Sender:   "system",
		Title:    ownerTitle,
		Content:  ownerPrefix + b.Title + timeRange,
		Type:     "meeting",
	})
	if err != nil {
		s.logger.Warn("归属人通知分发失败",
			zap.String("booking_id", b.BookingID),
			zap.String("receiver", b.Username),
			zap.Error(err),
		)
	}

	// 参会人通知（批量，去掉归属人自己避免重复通知）
	attendees := parseAttendees(b.Attendees, b.Username)
	if len(attendees) == 0 {
		return
	}

	content := attendeePrefix + b.Title + " by " + b.Username + timeRange
	if _, err := s.notifSvc.CreateBulk(ctx, attendeeTitle, content, b.Username, "meeting", attendees); err != nil {
		s.logger.Warn("参会人通知分发失败",
			zap.String("booking_id", b.BookingID),
			zap.Error(err),
		)
	}
}

// parseAttendees 解析参会人串：逗号分割、去空白、丢空项与归属人本人
func parseAttendees(attendees, owner string) []string {
	if attendees == "" {
		return nil
	}

	var out []string
	for _, raw := range strings.Split(attendees, ",") {
		name := strings.TrimSpace(raw)
		if name == "" || name == owner {
			continue
		}
		out = append(out, name)
	}
	return out
}

func toCreateResponse(batch []model.Booking) *dto.CreateBookingResponse {
	ids := make([]string, 0, len(batch))
	for i := range batch {
		ids = append(ids, batch[i].BookingID)
	}
	return &dto.CreateBookingResponse{BookingIDs: ids, Count: len(ids)}
}

// [自证通过] internal/service/booking_service.go
