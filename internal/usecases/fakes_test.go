package usecases

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
)

type fakeUsers struct {
	mu         sync.Mutex
	users      []entities.User
	businesses *fakeBusinesses
}

func (f *fakeUsers) Create(ctx context.Context, u *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrConflict
		}
	}
	u.ID = len(f.users) + 1
	u.CreatedAt = time.Now()
	f.users = append(f.users, *u)
	return nil
}

// CreateResident is all-or-nothing like the transactional store.
func (f *fakeUsers) CreateResident(ctx context.Context, u *entities.User, b *entities.Business) error {
	if f.businesses.slugTaken(b.Slug) {
		return ErrConflict
	}
	if err := f.Create(ctx, u); err != nil {
		return err
	}
	b.OwnerID = u.ID
	return f.businesses.Create(ctx, b)
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id int) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id int, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].PasswordHash = hash
			return nil
		}
	}
	return ErrNotFound
}

type fakeBusinesses struct {
	mu    sync.Mutex
	items []*entities.Business
	// staleSlugChecks makes the next n SlugExists calls answer false, as if
	// another insert landed right after the check.
	staleSlugChecks int
}

func (f *fakeBusinesses) add(b entities.Business) *entities.Business {
	_ = f.Create(context.Background(), &b)
	return &b
}

func (f *fakeBusinesses) find(id int) *entities.Business {
	for _, b := range f.items {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *fakeBusinesses) SlugExists(ctx context.Context, slug string) (bool, error) {
	f.mu.Lock()
	if f.staleSlugChecks > 0 {
		f.staleSlugChecks--
		f.mu.Unlock()
		return false, nil
	}
	f.mu.Unlock()
	return f.slugTaken(slug), nil
}

func (f *fakeBusinesses) slugTaken(slug string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.items {
		if b.Slug == slug {
			return true
		}
	}
	return false
}

func (f *fakeBusinesses) Create(ctx context.Context, b *entities.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Slug == b.Slug {
			return ErrConflict
		}
	}
	b.ID = len(f.items) + 1
	cp := *b
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeBusinesses) GetByID(ctx context.Context, id int) (*entities.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b := f.find(id); b != nil {
		cp := *b
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *fakeBusinesses) GetBySlug(ctx context.Context, slug string) (*entities.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.items {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeBusinesses) ListByOwner(ctx context.Context, ownerID int) ([]entities.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.Business{}
	for _, b := range f.items {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBusinesses) ListAll(ctx context.Context) ([]entities.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.Business{}
	for _, b := range f.items {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBusinesses) SearchActive(ctx context.Context, filter interfaces.BusinessFilter) ([]entities.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.Business{}
	for _, b := range f.items {
		if !b.IsActive {
			continue
		}
		if filter.City != "" && !strings.EqualFold(b.City, filter.City) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(b.Category, filter.Category) {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBusinesses) Update(ctx context.Context, b *entities.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.items {
		if other.ID != b.ID && other.Slug == b.Slug {
			return ErrConflict
		}
	}
	existing := f.find(b.ID)
	if existing == nil {
		return ErrNotFound
	}
	*existing = *b
	return nil
}

func (f *fakeBusinesses) SetActive(ctx context.Context, id int, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.find(id)
	if b == nil {
		return ErrNotFound
	}
	b.IsActive = active
	return nil
}

func (f *fakeBusinesses) LinkTelegramChat(ctx context.Context, businessID int, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := f.find(businessID)
	if target == nil {
		return ErrNotFound
	}
	for _, b := range f.items {
		if b.TelegramChatID != nil && *b.TelegramChatID == chatID && b.ID != businessID && b.OwnerID != target.OwnerID {
			return ErrConflict
		}
	}
	for _, b := range f.items {
		if b.TelegramChatID != nil && *b.TelegramChatID == chatID {
			b.TelegramChatID = nil
		}
	}
	target.TelegramChatID = &chatID
	return nil
}

func (f *fakeBusinesses) UnlinkTelegramChat(ctx context.Context, businessID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.find(businessID)
	if b == nil {
		return ErrNotFound
	}
	b.TelegramChatID = nil
	return nil
}

type fakePortfolio struct {
	mu     sync.Mutex
	items  []entities.PortfolioItem
	photos []entities.BusinessPhoto
}

func (f *fakePortfolio) withPhotos(it entities.PortfolioItem) entities.PortfolioItem {
	it.Photos = []entities.BusinessPhoto{}
	for _, p := range f.photos {
		if p.PortfolioItemID != nil && *p.PortfolioItemID == it.ID {
			it.Photos = append(it.Photos, p)
		}
	}
	return it
}

func (f *fakePortfolio) ListItems(ctx context.Context, businessID int) ([]entities.PortfolioItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.PortfolioItem{}
	for _, it := range f.items {
		if it.BusinessID == businessID {
			out = append(out, f.withPhotos(it))
		}
	}
	return out, nil
}

func (f *fakePortfolio) GetItem(ctx context.Context, businessID, itemID int) (*entities.PortfolioItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.BusinessID == businessID && it.ID == itemID {
			it = f.withPhotos(it)
			return &it, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakePortfolio) CreateItem(ctx context.Context, item *entities.PortfolioItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = len(f.items) + 1
	f.items = append(f.items, *item)
	return nil
}

func (f *fakePortfolio) UpdateItem(ctx context.Context, item *entities.PortfolioItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == item.ID && f.items[i].BusinessID == item.BusinessID {
			f.items[i] = *item
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakePortfolio) DeleteItem(ctx context.Context, businessID, itemID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == itemID && it.BusinessID == businessID {
			f.items = slices.Delete(f.items, i, i+1)
			f.photos = slices.DeleteFunc(f.photos, func(p entities.BusinessPhoto) bool {
				return p.PortfolioItemID != nil && *p.PortfolioItemID == itemID
			})
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakePortfolio) AddPhoto(ctx context.Context, photo *entities.BusinessPhoto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	photo.ID = len(f.photos) + 100
	f.photos = append(f.photos, *photo)
	return nil
}

func (f *fakePortfolio) DeletePhoto(ctx context.Context, businessID, photoID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.photos {
		if p.ID == photoID && p.BusinessID == businessID {
			f.photos = slices.Delete(f.photos, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

type fakePrices struct {
	mu          sync.Mutex
	businesses  *fakeBusinesses
	lists       []entities.PriceList
	assignments []entities.PriceAssignment
	nextRowID   int
}

func (f *fakePrices) listIndex(businessID, listID int) int {
	for i, l := range f.lists {
		if l.ID == listID && (businessID == 0 || l.BusinessID == businessID) {
			return i
		}
	}
	return -1
}

func (f *fakePrices) ListPriceLists(ctx context.Context, businessID int, publicOnly bool) ([]entities.PriceList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.PriceList{}
	for _, l := range f.lists {
		if l.BusinessID == businessID && (!publicOnly || l.IsPublic) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakePrices) GetPriceList(ctx context.Context, businessID, listID int) (*entities.PriceList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.listIndex(businessID, listID); i >= 0 {
		l := f.lists[i]
		return &l, nil
	}
	return nil, ErrNotFound
}

func (f *fakePrices) CreatePriceList(ctx context.Context, list *entities.PriceList) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list.ID = len(f.lists) + 1
	if list.Rows == nil {
		list.Rows = []entities.PriceListRow{}
	}
	f.lists = append(f.lists, *list)
	return nil
}

func (f *fakePrices) UpdatePriceList(ctx context.Context, list *entities.PriceList) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.listIndex(list.BusinessID, list.ID)
	if i < 0 {
		return ErrNotFound
	}
	f.lists[i].Title, f.lists[i].Currency, f.lists[i].IsPublic = list.Title, list.Currency, list.IsPublic
	return nil
}

func (f *fakePrices) DeletePriceList(ctx context.Context, businessID, listID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.listIndex(businessID, listID)
	if i < 0 {
		return ErrNotFound
	}
	f.lists = slices.Delete(f.lists, i, i+1)
	return nil
}

func (f *fakePrices) ReplaceRows(ctx context.Context, listID int, rows []entities.PriceListRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.listIndex(0, listID)
	if i < 0 {
		return ErrNotFound
	}
	stored := make([]entities.PriceListRow, len(rows))
	for n, r := range rows {
		f.nextRowID++
		r.ID = f.nextRowID
		r.PriceListID = listID
		r.Position = n
		stored[n] = r
	}
	f.lists[i].Rows = stored
	return nil
}

func (f *fakePrices) decorate(a entities.PriceAssignment) entities.PriceAssignment {
	if i := f.listIndex(0, a.PriceListID); i >= 0 {
		a.PriceListName = f.lists[i].Title
		a.SupplierID = f.lists[i].BusinessID
		if s := f.businesses.find(a.SupplierID); s != nil {
			a.SupplierName = s.Name
		}
	}
	if p := f.businesses.find(a.BusinessID); p != nil {
		a.BusinessName = p.Name
	}
	return a
}

func (f *fakePrices) UpsertAssignment(ctx context.Context, listID, partnerID int) (*entities.PriceAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.assignments {
		a := &f.assignments[i]
		if a.PriceListID == listID && a.BusinessID == partnerID {
			if a.Status == entities.AssignmentDeclined || a.Status == entities.AssignmentRevoked {
				a.Status = entities.AssignmentPending
				a.RespondedAt = nil
			}
			out := f.decorate(*a)
			return &out, nil
		}
	}
	a := entities.PriceAssignment{
		ID:          len(f.assignments) + 1,
		PriceListID: listID,
		BusinessID:  partnerID,
		Status:      entities.AssignmentPending,
		CreatedAt:   time.Now(),
	}
	f.assignments = append(f.assignments, a)
	out := f.decorate(a)
	return &out, nil
}

func (f *fakePrices) GetAssignment(ctx context.Context, id int) (*entities.PriceAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.ID == id {
			out := f.decorate(a)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakePrices) SetAssignmentStatus(ctx context.Context, id int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.assignments {
		if f.assignments[i].ID == id {
			now := time.Now()
			f.assignments[i].Status = status
			f.assignments[i].RespondedAt = &now
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakePrices) ListIncomingAssignments(ctx context.Context, businessID int) ([]entities.PriceAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.PriceAssignment{}
	for _, a := range f.assignments {
		if a.BusinessID == businessID {
			out = append(out, f.decorate(a))
		}
	}
	return out, nil
}

func (f *fakePrices) ListOutgoingAssignments(ctx context.Context, businessID int) ([]entities.PriceAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.PriceAssignment{}
	for _, a := range f.assignments {
		if d := f.decorate(a); d.SupplierID == businessID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakePrices) ActiveSupplierRows(ctx context.Context, buyerID int) ([]entities.SupplierRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.SupplierRow{}
	for _, a := range f.assignments {
		if a.BusinessID != buyerID || a.Status != entities.AssignmentActive {
			continue
		}
		d := f.decorate(a)
		l := f.lists[f.listIndex(0, a.PriceListID)]
		for _, r := range l.Rows {
			out = append(out, entities.SupplierRow{
				SupplierID:   d.SupplierID,
				SupplierName: d.SupplierName,
				PriceListID:  l.ID,
				Currency:     l.Currency,
				Row:          r,
			})
		}
	}
	return out, nil
}

type fakeRequests struct {
	mu         sync.Mutex
	requests   []*entities.Request
	pickers    []*entities.PickerAssignment
	nextItemID int
}

func (f *fakeRequests) find(id int) *entities.Request {
	for _, r := range f.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func copyRequest(r *entities.Request) *entities.Request {
	cp := *r
	cp.Items = append([]entities.RequestItem{}, r.Items...)
	cp.TotalCents = 0
	for _, it := range cp.Items {
		cp.TotalCents += lineAmount(it.EffectiveQuantity(), it.UnitPriceCents)
	}
	return &cp
}

func (f *fakeRequests) CreateRequest(ctx context.Context, r *entities.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = len(f.requests) + 1
	for i := range r.Items {
		f.nextItemID++
		r.Items[i].ID = f.nextItemID
		r.Items[i].RequestID = r.ID
	}
	f.requests = append(f.requests, copyRequest(r))
	return nil
}

func (f *fakeRequests) GetRequest(ctx context.Context, id int) (*entities.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r := f.find(id); r != nil {
		return copyRequest(r), nil
	}
	return nil, ErrNotFound
}

func (f *fakeRequests) ListRequests(ctx context.Context, businessID int, incoming bool) ([]entities.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.Request{}
	for _, r := range f.requests {
		if (incoming && r.SupplierID == businessID) || (!incoming && r.BuyerID == businessID) {
			out = append(out, *copyRequest(r))
		}
	}
	return out, nil
}

func (f *fakeRequests) TransitionRequest(ctx context.Context, id int, from []string, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.find(id)
	if r == nil || !slices.Contains(from, r.Status) {
		return ErrConflict
	}
	r.Status = to
	if entities.RequestClosed(to) {
		for _, p := range f.pickers {
			if p.RequestID == id && p.Status == entities.PickerActive {
				p.Status = entities.PickerRevoked
			}
		}
	}
	return nil
}

func (f *fakeRequests) SetPickedQuantity(ctx context.Context, requestID, itemID int, qty float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.find(requestID)
	if r == nil {
		return ErrNotFound
	}
	if r.Status != entities.RequestAccepted {
		return ErrConflict
	}
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			q := qty
			r.Items[i].PickedQuantity = &q
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRequests) CreatePickerAssignment(ctx context.Context, a *entities.PickerAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pickers {
		if p.RequestID == a.RequestID && p.Status == entities.PickerActive {
			p.Status = entities.PickerRevoked
		}
	}
	a.ID = len(f.pickers) + 1
	cp := *a
	f.pickers = append(f.pickers, &cp)
	return nil
}

func (f *fakeRequests) GetPickerAssignment(ctx context.Context, token string) (*entities.PickerAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pickers {
		if p.Token == token {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRequests) CompletePicking(ctx context.Context, assignmentID, requestID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var picker *entities.PickerAssignment
	for _, p := range f.pickers {
		if p.ID == assignmentID && p.Status == entities.PickerActive {
			picker = p
		}
	}
	if picker == nil {
		return ErrNotFound
	}
	r := f.find(requestID)
	if r == nil || r.Status != entities.RequestAccepted {
		return ErrConflict
	}
	picker.Status = entities.PickerDone
	r.Status = entities.RequestPicked
	return nil
}

func (f *fakeRequests) activePickers(requestID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.pickers {
		if p.RequestID == requestID && p.Status == entities.PickerActive {
			n++
		}
	}
	return n
}

type fakeInvoices struct {
	mu       sync.Mutex
	invoices []entities.Invoice
	seq      map[int]int
}

func (f *fakeInvoices) CreateInvoice(ctx context.Context, inv *entities.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.invoices {
		if existing.RequestID == inv.RequestID {
			return ErrConflict
		}
	}
	if f.seq == nil {
		f.seq = map[int]int{}
	}
	f.seq[inv.SupplierID]++
	inv.ID = len(f.invoices) + 1
	inv.Number = "INV-" + strings.Repeat("0", f.seq[inv.SupplierID])
	f.invoices = append(f.invoices, *inv)
	return nil
}

func (f *fakeInvoices) GetInvoice(ctx context.Context, id int) (*entities.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		if inv.ID == id {
			return &inv, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeInvoices) ListInvoices(ctx context.Context, businessID int) ([]entities.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.Invoice{}
	for _, inv := range f.invoices {
		if inv.SupplierID == businessID || inv.BuyerID == businessID {
			out = append(out, inv)
		}
	}
	return out, nil
}

type fakeConversations struct {
	mu            sync.Mutex
	conversations []entities.AgentConversation
	messages      []entities.AgentMessage
}

func (f *fakeConversations) GetConversation(ctx context.Context, id string) (*entities.AgentConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conversations {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeConversations) CreateConversation(ctx context.Context, c *entities.AgentConversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversations = append(f.conversations, *c)
	return nil
}

func (f *fakeConversations) AppendMessage(ctx context.Context, m *entities.AgentMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = len(f.messages) + 1
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeConversations) RecentMessages(ctx context.Context, conversationID string, limit int) ([]entities.AgentMessage, error) {
	all, _ := f.ListMessages(ctx, conversationID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (f *fakeConversations) ListConversations(ctx context.Context, businessID int) ([]entities.AgentConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.AgentConversation{}
	for _, c := range f.conversations {
		if c.BusinessID == businessID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConversations) ListMessages(ctx context.Context, conversationID string) ([]entities.AgentMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.AgentMessage{}
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeInquiries struct {
	mu    sync.Mutex
	items []entities.IncomingRequest
}

func (f *fakeInquiries) CreateInquiry(ctx context.Context, in *entities.IncomingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = len(f.items) + 1
	f.items = append(f.items, *in)
	return nil
}

func (f *fakeInquiries) ListInquiries(ctx context.Context, businessID int) ([]entities.IncomingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entities.IncomingRequest{}
	for _, in := range f.items {
		if in.BusinessID == businessID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInquiries) UpdateInquiryStatus(ctx context.Context, businessID, id int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].BusinessID == businessID {
			f.items[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

type fakeStats struct {
	stats *entities.PlatformStats
}

func (f fakeStats) PlatformStats(ctx context.Context) (*entities.PlatformStats, error) {
	return f.stats, nil
}

type sentNotification struct {
	BusinessID int
	Text       string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, b *entities.Business, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{BusinessID: b.ID, Text: text})
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeGateway struct {
	reply   string
	err     error
	prompt  string
	history []entities.AgentMessage
	block   chan struct{}
}

func (f *fakeGateway) Reply(ctx context.Context, systemPrompt string, history []entities.AgentMessage) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.prompt = systemPrompt
	f.history = history
	return f.reply, f.err
}

var errBoom = errors.New("boom")
