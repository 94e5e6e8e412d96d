package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"roomhub/backend/internal/model"
	"roomhub/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key = username

	emailErr error // 强制 FindEmailByUsername 失败
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.users {
		if u.UserID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindEmailByUsername(_ context.Context, username string) (string, error) {
	if m.emailErr != nil {
		return "", m.emailErr
	}
	if u, ok := m.users[username]; ok {
		return u.Email, nil
	}
	return "", nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Name
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		result = append(result, *d)
	}
	return result, nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	if room.RoomID == "" {
		room.RoomID = "room-" + room.Name
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context, includeInactive bool) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if !includeInactive && !r.IsActive {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string) error {
	delete(m.rooms, id)
	return nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct {
	bookings map[string]*model.Booking
	seq      int

	createErr     error // 强制每次 Create 失败
	createCalls   int
	createFailOn  int   // 第 N 次 Create 返回 createFailErr（1 起；0 关闭）
	createFailErr error
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string]*model.Booking)}
}

func (m *mockBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createCalls++
	if m.createFailOn > 0 && m.createCalls == m.createFailOn {
		return m.createFailErr
	}
	if booking.BookingID == "" {
		m.seq++
		booking.BookingID = fmt.Sprintf("booking-%d", m.seq)
	}
	cp := *booking
	m.bookings[booking.BookingID] = &cp
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*model.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) Update(_ context.Context, booking *model.Booking) error {
	cp := *booking
	m.bookings[booking.BookingID] = &cp
	return nil
}

func (m *mockBookingRepo) Delete(_ context.Context, id string) error {
	delete(m.bookings, id)
	return nil
}

func (m *mockBookingRepo) FindConflicting(_ context.Context, roomID string, start, end time.Time, excludeID string) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if b.RoomID != roomID || b.Status == model.BookingStatusCancelled {
			continue
		}
		if excludeID != "" && b.BookingID == excludeID {
			continue
		}
		// 半开区间重叠判定
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListOngoing(_ context.Context, username string, now time.Time) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if b.Username != username || b.Status == model.BookingStatusCancelled {
			continue
		}
		if !b.StartTime.After(now) && b.EndTime.After(now) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListUpcoming(_ context.Context, username string, now time.Time) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if b.Username != username || b.Status == model.BookingStatusCancelled {
			continue
		}
		if b.StartTime.After(now) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListByUserInRange(_ context.Context, username string, from, to time.Time) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if b.Username != username || b.Status == model.BookingStatusCancelled {
			continue
		}
		if !b.StartTime.Before(from) && b.StartTime.Before(to) {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (m *mockBookingRepo) List(_ context.Context, criteria repository.BookingCriteria) ([]model.Booking, int64, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if criteria.RoomID != "" && b.RoomID != criteria.RoomID {
			continue
		}
		if criteria.Username != "" && b.Username != criteria.Username {
			continue
		}
		if criteria.Status != "" && b.Status != criteria.Status {
			continue
		}
		if criteria.From != nil && b.StartTime.Before(*criteria.From) {
			continue
		}
		if criteria.To != nil && !b.StartTime.Before(*criteria.To) {
			continue
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, int64(len(result)), nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	order         []string // 保留插入顺序
	seq           int

	createErr       error
	failForReceiver string // 仅对指定接收人 Create 失败
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.failForReceiver != "" && n.Receiver == m.failForReceiver {
		return fmt.Errorf("mock: receiver %s rejected", n.Receiver)
	}
	if n.NotificationID == "" {
		m.seq++
		n.NotificationID = fmt.Sprintf("notif-%d", m.seq)
	}
	cp := *n
	m.notifications[n.NotificationID] = &cp
	m.order = append(m.order, n.NotificationID)
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByReceiver(_ context.Context, receiver string) ([]model.Notification, error) {
	var result []model.Notification
	// 倒序：后插入的在前
	for i := len(m.order) - 1; i >= 0; i-- {
		n := m.notifications[m.order[i]]
		if n != nil && n.Receiver == receiver {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkAsRead(_ context.Context, id string) error {
	if n, ok := m.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllAsRead(_ context.Context, receiver string) error {
	for _, n := range m.notifications {
		if n.Receiver == receiver {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, receiver string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.Receiver == receiver && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, id string) error {
	delete(m.notifications, id)
	return nil
}

// ── Mock Pusher / Mailer ──

type pushedMessage struct {
	Receiver string
	Action   string
	Data     interface{}
}

// mockPusher 记录全部推送调用
type mockPusher struct {
	pushed []pushedMessage
}

func (m *mockPusher) PushToUser(username, action string, data interface{}) {
	m.pushed = append(m.pushed, pushedMessage{Receiver: username, Action: action, Data: data})
}

// actionsFor 返回推给指定用户的 action 序列
func (m *mockPusher) actionsFor(username string) []string {
	var actions []string
	for _, p := range m.pushed {
		if p.Receiver == username {
			actions = append(actions, p.Action)
		}
	}
	return actions
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// mockMailer 记录入队的邮件；enqueueErr 非 nil 时模拟队列故障
type mockMailer struct {
	sent       []sentMail
	enqueueErr error
}

func (m *mockMailer) Enqueue(to, subject, body string) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// ── 测试用聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user         *mockUserRepo
	dept         *mockDeptRepo
	room         *mockRoomRepo
	booking      *mockBookingRepo
	notification *mockNotificationRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		user:         newMockUserRepo(),
		dept:         newMockDeptRepo(),
		room:         newMockRoomRepo(),
		booking:      newMockBookingRepo(),
		notification: newMockNotificationRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:         r.user,
		Department:   r.dept,
		Room:         r.room,
		Booking:      r.booking,
		Notification: r.notification,
	}
}
