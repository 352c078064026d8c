package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MockUserRepository is an in-memory UserRepositoryInterface for testing
type MockUserRepository struct {
	users  map[uint]*models.User
	tokens map[uint][]string
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]*models.User),
		tokens: make(map[uint][]string),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) GetDeviceTokens(userID uint) ([]string, error) {
	return m.tokens[userID], nil
}

func (m *MockUserRepository) RegisterDeviceToken(userID uint, token string) error {
	for _, existing := range m.tokens[userID] {
		if existing == token {
			return nil
		}
	}
	m.tokens[userID] = append(m.tokens[userID], token)
	return nil
}

func (m *MockUserRepository) RemoveDeviceToken(userID uint, token string) error {
	kept := m.tokens[userID][:0]
	for _, existing := range m.tokens[userID] {
		if existing != token {
			kept = append(kept, existing)
		}
	}
	m.tokens[userID] = kept
	return nil
}

// MockChatRepository is an in-memory ChatRepositoryInterface for testing
type MockChatRepository struct {
	chats   map[uint]*models.Chat
	members map[uint]map[uint]struct{}
	users   *MockUserRepository
	nextID  uint
}

func NewMockChatRepository(users *MockUserRepository) *MockChatRepository {
	return &MockChatRepository{
		chats:   make(map[uint]*models.Chat),
		members: make(map[uint]map[uint]struct{}),
		users:   users,
		nextID:  1,
	}
}

func (m *MockChatRepository) Create(chat *models.Chat, memberIDs ...uint) error {
	if chat.ID == 0 {
		chat.ID = m.nextID
		m.nextID++
	}
	m.chats[chat.ID] = chat
	for _, userID := range memberIDs {
		if err := m.AddMember(chat.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockChatRepository) FindByID(id uint) (*models.Chat, error) {
	if chat, ok := m.chats[id]; ok {
		return chat, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockChatRepository) FindByMeetupID(meetupID uint) (*models.Chat, error) {
	for _, chat := range m.chats {
		if chat.MeetupID == meetupID {
			return chat, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockChatRepository) AddMember(chatID, userID uint) error {
	if m.members[chatID] == nil {
		m.members[chatID] = make(map[uint]struct{})
	}
	m.members[chatID][userID] = struct{}{}
	return nil
}

func (m *MockChatRepository) SetKind(chatID uint, kind models.ChatKind) error {
	if chat, ok := m.chats[chatID]; ok {
		chat.Kind = kind
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *MockChatRepository) IsMember(chatID, userID uint) (bool, error) {
	_, ok := m.members[chatID][userID]
	return ok, nil
}

func (m *MockChatRepository) GetMembers(chatID uint) ([]models.User, error) {
	var users []models.User
	for userID := range m.members[chatID] {
		if m.users != nil {
			if user, err := m.users.FindByID(userID); err == nil {
				users = append(users, *user)
				continue
			}
		}
		users = append(users, models.User{ID: userID})
	}
	return users, nil
}

func (m *MockChatRepository) GetUserChats(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	for chatID, members := range m.members {
		if _, ok := members[userID]; ok {
			chats = append(chats, *m.chats[chatID])
		}
	}
	return chats, nil
}

func (m *MockChatRepository) MemberCount(chatID uint) (int64, error) {
	return int64(len(m.members[chatID])), nil
}

// MockMessageRepository is an in-memory MessageRepositoryInterface for testing
type MockMessageRepository struct {
	messages map[uint]*models.Message
	nextID   uint
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]*models.Message),
		nextID:   1,
	}
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	for _, existing := range m.messages {
		if existing.ClientID == message.ClientID && existing.SenderID == message.SenderID {
			return gorm.ErrDuplicatedKey
		}
	}
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	m.messages[message.ID] = message
	return nil
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	for _, msg := range m.messages {
		if msg.ClientID == clientID && msg.SenderID == senderID {
			return msg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindChatMessages(chatID uint, cursor uint, limit int) ([]models.Message, error) {
	var result []models.Message
	for _, msg := range m.messages {
		if msg.ChatID != chatID {
			continue
		}
		if cursor > 0 && msg.ID >= cursor {
			continue
		}
		result = append(result, *msg)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// MockMeetupRepository is an in-memory MeetupRepositoryInterface for testing
type MockMeetupRepository struct {
	meetups       map[uint]*models.Meetup
	subCategories map[uint]*models.SubCategory
	nextID        uint
}

func NewMockMeetupRepository() *MockMeetupRepository {
	return &MockMeetupRepository{
		meetups:       make(map[uint]*models.Meetup),
		subCategories: make(map[uint]*models.SubCategory),
		nextID:        1,
	}
}

func (m *MockMeetupRepository) AddSubCategory(sc *models.SubCategory) {
	m.subCategories[sc.ID] = sc
}

func (m *MockMeetupRepository) Create(meetup *models.Meetup) error {
	if meetup.ID == 0 {
		meetup.ID = m.nextID
		m.nextID++
	}
	if sc, ok := m.subCategories[meetup.SubCategoryID]; ok {
		meetup.SubCategory = *sc
	}
	m.meetups[meetup.ID] = meetup
	return nil
}

func (m *MockMeetupRepository) FindByID(id uint) (*models.Meetup, error) {
	if meetup, ok := m.meetups[id]; ok {
		return meetup, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMeetupRepository) FindSubCategory(id uint) (*models.SubCategory, error) {
	if sc, ok := m.subCategories[id]; ok {
		return sc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMeetupRepository) FindSubCategoryByName(categoryName, name string) (*models.SubCategory, error) {
	for _, sc := range m.subCategories {
		if sc.Name == name {
			return sc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// MockJoinRequestRepository is an in-memory JoinRequestRepositoryInterface
// for testing. FindByIDForUpdate loads the meetup and subcategory the way
// the real repository preloads them.
type MockJoinRequestRepository struct {
	requests map[uint]*models.JoinRequest
	meetups  *MockMeetupRepository
	nextID   uint
}

func NewMockJoinRequestRepository(meetups *MockMeetupRepository) *MockJoinRequestRepository {
	return &MockJoinRequestRepository{
		requests: make(map[uint]*models.JoinRequest),
		meetups:  meetups,
		nextID:   1,
	}
}

func (m *MockJoinRequestRepository) Create(request *models.JoinRequest) error {
	for _, existing := range m.requests {
		if existing.MeetupID == request.MeetupID && existing.SenderID == request.SenderID {
			return gorm.ErrDuplicatedKey
		}
	}
	if request.ID == 0 {
		request.ID = m.nextID
		m.nextID++
	}
	m.requests[request.ID] = request
	return nil
}

func (m *MockJoinRequestRepository) FindByID(id uint) (*models.JoinRequest, error) {
	return m.FindByIDForUpdate(id)
}

func (m *MockJoinRequestRepository) FindByIDForUpdate(id uint) (*models.JoinRequest, error) {
	request, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *request
	if meetup, err := m.meetups.FindByID(request.MeetupID); err == nil {
		loaded.Meetup = *meetup
		if sc, err := m.meetups.FindSubCategory(meetup.SubCategoryID); err == nil {
			loaded.Meetup.SubCategory = *sc
		}
	}
	return &loaded, nil
}

func (m *MockJoinRequestRepository) FindByMeetupAndSender(meetupID, senderID uint) (*models.JoinRequest, error) {
	for _, request := range m.requests {
		if request.MeetupID == meetupID && request.SenderID == senderID {
			return request, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockJoinRequestRepository) ListForMeetup(meetupID uint) ([]models.JoinRequest, error) {
	var result []models.JoinRequest
	for _, request := range m.requests {
		if request.MeetupID == meetupID {
			result = append(result, *request)
		}
	}
	return result, nil
}

func (m *MockJoinRequestRepository) UpdateStatus(id uint, status models.JoinRequestStatus) error {
	if request, ok := m.requests[id]; ok {
		request.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

// MockWalletRepository is an in-memory WalletRepositoryInterface for testing
type MockWalletRepository struct {
	wallets map[uint]*models.Wallet
	ledger  []models.WalletTransaction
	nextID  uint
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[uint]*models.Wallet),
		nextID:  1,
	}
}

func (m *MockWalletRepository) Create(wallet *models.Wallet) error {
	if wallet.ID == 0 {
		wallet.ID = m.nextID
		m.nextID++
	}
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) FindByUserID(userID uint) (*models.Wallet, error) {
	for _, wallet := range m.wallets {
		if wallet.UserID == userID {
			return wallet, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockWalletRepository) FindByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	return m.FindByUserID(userID)
}

func (m *MockWalletRepository) UpdateBalance(walletID uint, balance decimal.Decimal) error {
	if wallet, ok := m.wallets[walletID]; ok {
		wallet.Balance = balance
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *MockWalletRepository) AppendTransaction(txn *models.WalletTransaction) error {
	txn.ID = uint(len(m.ledger) + 1)
	txn.CreatedAt = time.Now()
	m.ledger = append(m.ledger, *txn)
	return nil
}

func (m *MockWalletRepository) ListTransactions(walletID uint, limit int) ([]models.WalletTransaction, error) {
	var result []models.WalletTransaction
	for i := len(m.ledger) - 1; i >= 0; i-- {
		if m.ledger[i].WalletID != walletID {
			continue
		}
		result = append(result, m.ledger[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// LedgerSum returns the signed sum of a wallet's transactions.
func (m *MockWalletRepository) LedgerSum(walletID uint) decimal.Decimal {
	sum := decimal.Zero
	for i := range m.ledger {
		if m.ledger[i].WalletID == walletID {
			sum = sum.Add(m.ledger[i].Signed())
		}
	}
	return sum
}

// MockNotificationRepository is an in-memory NotificationRepositoryInterface
type MockNotificationRepository struct {
	notifications map[uint]*models.Notification
	nextID        uint
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		notifications: make(map[uint]*models.Notification),
		nextID:        1,
	}
}

func (m *MockNotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == 0 {
		notification.ID = m.nextID
		m.nextID++
	}
	m.notifications[notification.ID] = notification
	return nil
}

func (m *MockNotificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepository) ListForUser(userID uint, limit int) ([]models.Notification, error) {
	var result []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, *n)
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkAllRead(userID uint) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// MockPaymentRepository is an in-memory PaymentRepositoryInterface
type MockPaymentRepository struct {
	payments map[uint]*models.Payment
	nextID   uint
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[uint]*models.Payment),
		nextID:   1,
	}
}

func (m *MockPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == 0 {
		payment.ID = m.nextID
		m.nextID++
	}
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) FindPendingByOrderIDForUpdate(orderID string) (*models.Payment, error) {
	for _, payment := range m.payments {
		if payment.GatewayOrderID == orderID && payment.Status == models.PaymentPending {
			return payment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockPaymentRepository) UpdateStatus(id uint, status models.PaymentStatus) error {
	if payment, ok := m.payments[id]; ok {
		payment.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

// MockUnitOfWork hands out a fixed repository set. Do serializes callers the
// way row locks serialize real transactions.
type MockUnitOfWork struct {
	repos repository.RepositorySet
	mux   sync.Mutex
}

func NewMockUnitOfWork(repos repository.RepositorySet) *MockUnitOfWork {
	return &MockUnitOfWork{repos: repos}
}

func (m *MockUnitOfWork) Do(fn func(tx repository.RepositorySet) error) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	return fn(m.repos)
}

// MockEmitter records emitted events instead of publishing them.
type MockEmitter struct {
	mux    sync.Mutex
	Events []EmittedEvent
}

type EmittedEvent struct {
	Room    uint
	User    uint
	Event   string
	Payload json.RawMessage
}

func (m *MockEmitter) EmitToRoom(chatID uint, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	m.Events = append(m.Events, EmittedEvent{Room: chatID, Event: event, Payload: data})
	return nil
}

func (m *MockEmitter) EmitToUser(userID uint, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	m.Events = append(m.Events, EmittedEvent{User: userID, Event: event, Payload: data})
	return nil
}

func (m *MockEmitter) EventsFor(userID uint, event string) []EmittedEvent {
	m.mux.Lock()
	defer m.mux.Unlock()
	var result []EmittedEvent
	for _, e := range m.Events {
		if e.User == userID && e.Event == event {
			result = append(result, e)
		}
	}
	return result
}
