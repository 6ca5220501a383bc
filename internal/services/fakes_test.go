package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"cleanearth/internal/models"
	"cleanearth/internal/repositories"
)

// In-memory repositories shared by the service tests

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]*models.User{}}
	for _, u := range users {
		r.put(u)
	}
	return r
}

func (r *fakeUserRepo) put(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	cp := *u
	r.users[u.ID] = &cp
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if existing, _ := r.GetByEmail(ctx, user.Email); existing != nil {
		return repositories.ErrEmailTaken
	}
	user.CreatedAt = time.Now()
	r.put(user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	r.put(user)
	return nil
}

func (r *fakeUserRepo) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].IsBlocked = blocked
	return nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[int64]*models.Request
	nextID   int64
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[int64]*models.Request{}}
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *models.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req.ID = r.nextID
	req.CreatedAt = time.Now()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req, ok := r.requests[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRequestRepo) Exists(ctx context.Context, id int64) (bool, error) {
	req, _ := r.GetByID(ctx, id)
	return req != nil, nil
}

func (r *fakeRequestRepo) filter(keep func(*models.Request) bool) []*models.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Request, 0)
	for id := r.nextID; id >= 1; id-- {
		if req, ok := r.requests[id]; ok && keep(req) {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out
}

func (r *fakeRequestRepo) List(ctx context.Context) ([]*models.Request, error) {
	return r.filter(func(*models.Request) bool { return true }), nil
}

func (r *fakeRequestRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Request, error) {
	return r.filter(func(req *models.Request) bool { return req.UserID != nil && *req.UserID == userID }), nil
}

func (r *fakeRequestRepo) ListByPincode(ctx context.Context, pincode string) ([]*models.Request, error) {
	return r.filter(func(req *models.Request) bool { return req.Pincode == pincode }), nil
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[id].Status = status
	return nil
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[int64]*models.Campaign
	members   map[int64]map[int64]bool
	nextID    int64
	requests  *fakeRequestRepo
}

func newFakeCampaignRepo(requests *fakeRequestRepo) *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaigns: map[int64]*models.Campaign{},
		members:   map[int64]map[int64]bool{},
		requests:  requests,
	}
}

func (r *fakeCampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	cp := *c
	r.campaigns[c.ID] = &cp
	r.members[c.ID] = map[int64]bool{}
	return nil
}

func (r *fakeCampaignRepo) view(c *models.Campaign) *models.Campaign {
	cp := *c
	cp.VolunteerCount = len(r.members[c.ID])
	return &cp
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.campaigns[id]; ok {
		return r.view(c), nil
	}
	return nil, nil
}

func (r *fakeCampaignRepo) List(ctx context.Context) ([]*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Campaign, 0)
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.campaigns[id]; ok {
			out = append(out, r.view(c))
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[c.ID]; !ok {
		return repositories.ErrCampaignNotFound
	}
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *fakeCampaignRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[id]; !ok {
		return repositories.ErrCampaignNotFound
	}
	delete(r.campaigns, id)
	delete(r.members, id)
	return nil
}

func (r *fakeCampaignRepo) Complete(ctx context.Context, id int64, d models.CompletionDetails) (*models.Campaign, error) {
	r.mu.Lock()
	c, ok := r.campaigns[id]
	if !ok {
		r.mu.Unlock()
		return nil, repositories.ErrCampaignNotFound
	}
	now := time.Now()
	c.Status = models.CampaignStatusCompleted
	c.CompletedAt = &now
	if d.ActualParticipants != nil {
		c.ActualParticipants = *d.ActualParticipants
	}
	if d.WasteCollected != nil {
		c.WasteCollected = *d.WasteCollected
	}
	if d.ImageLink != nil {
		c.ImageLink = *d.ImageLink
	}
	if d.CompletionNotes != nil {
		c.CompletionNotes = *d.CompletionNotes
	}
	requestID := c.RequestID
	r.mu.Unlock()

	if err := r.requests.UpdateStatus(ctx, requestID, models.RequestStatusCompleted); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *fakeCampaignRepo) ListPlannedByPincode(ctx context.Context, pincode string, viewerID int64) ([]*models.CampaignListing, error) {
	all, _ := r.List(ctx)
	out := make([]*models.CampaignListing, 0)
	for _, c := range all {
		req, _ := r.requests.GetByID(ctx, c.RequestID)
		if c.Status != models.CampaignStatusPlanned || req == nil || req.Pincode != pincode {
			continue
		}
		r.mu.Lock()
		joined := r.members[c.ID][viewerID]
		r.mu.Unlock()
		out = append(out, models.NewCampaignListing(c, joined))
	}
	return out, nil
}

// fakeParticipationRepo shares membership state with a fakeCampaignRepo
type fakeParticipationRepo struct {
	campaigns *fakeCampaignRepo
	users     *fakeUserRepo
	badges    *fakeBadgeRepo
	nextID    int64
}

func (r *fakeParticipationRepo) Join(ctx context.Context, campaignID, volunteerID int64) (*repositories.JoinResult, error) {
	r.campaigns.mu.Lock()
	defer r.campaigns.mu.Unlock()

	c, ok := r.campaigns.campaigns[campaignID]
	if !ok {
		return nil, repositories.ErrCampaignNotFound
	}
	if !c.IsOpen() {
		return nil, repositories.ErrCampaignClosed
	}
	members := r.campaigns.members[campaignID]
	if members[volunteerID] {
		return nil, repositories.ErrAlreadyJoined
	}
	if len(members) >= c.NumVolunteers {
		return nil, repositories.ErrCampaignFull
	}
	members[volunteerID] = true
	r.nextID++

	return &repositories.JoinResult{
		Volunteer: &models.CampaignVolunteer{
			ID: r.nextID, CampaignID: campaignID, VolunteerID: volunteerID,
			Status: models.ParticipationJoined, JoinedAt: time.Now(),
		},
		ParticipantCount: len(members),
		Capacity:         c.NumVolunteers,
	}, nil
}

func (r *fakeParticipationRepo) Leave(ctx context.Context, campaignID, volunteerID int64) (bool, error) {
	r.campaigns.mu.Lock()
	defer r.campaigns.mu.Unlock()
	members := r.campaigns.members[campaignID]
	if !members[volunteerID] {
		return false, nil
	}
	delete(members, volunteerID)
	return true, nil
}

func (r *fakeParticipationRepo) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CampaignVolunteer, error) {
	r.campaigns.mu.Lock()
	ids := make([]int64, 0)
	for id := range r.campaigns.members[campaignID] {
		ids = append(ids, id)
	}
	r.campaigns.mu.Unlock()

	out := make([]*models.CampaignVolunteer, 0, len(ids))
	for _, id := range ids {
		u, _ := r.users.GetByID(ctx, id)
		out = append(out, &models.CampaignVolunteer{CampaignID: campaignID, VolunteerID: id, VolunteerName: u.Name, Status: models.ParticipationJoined})
	}
	return out, nil
}

func (r *fakeParticipationRepo) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	users, _ := r.users.List(ctx)
	out := make([]*models.LeaderboardEntry, 0)
	for _, u := range users {
		if u.Role != models.RoleVolunteer {
			continue
		}
		e := &models.LeaderboardEntry{ID: u.ID, Name: u.Name}
		r.campaigns.mu.Lock()
		for cid, members := range r.campaigns.members {
			if members[u.ID] {
				e.CampsAttended++
				if r.campaigns.campaigns[cid].Status == models.CampaignStatusCompleted {
					e.CampsCompleted++
				}
			}
		}
		r.campaigns.mu.Unlock()
		if r.badges != nil {
			b, _ := r.badges.ListByUser(ctx, u.ID)
			e.Badges = len(b)
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeBadgeRepo struct {
	mu     sync.Mutex
	badges []*models.Badge
}

func (r *fakeBadgeRepo) Create(ctx context.Context, b *models.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = int64(len(r.badges) + 1)
	b.CreatedAt = time.Now()
	cp := *b
	r.badges = append(r.badges, &cp)
	return nil
}

func (r *fakeBadgeRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Badge, 0)
	for _, b := range r.badges {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeRevokedRepo struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func newFakeRevokedRepo() *fakeRevokedRepo {
	return &fakeRevokedRepo{tokens: map[string]time.Time{}}
}

func (r *fakeRevokedRepo) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[jti] = expiresAt
	return nil
}

func (r *fakeRevokedRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.tokens[jti]
	return ok && exp.After(time.Now()), nil
}

func (r *fakeRevokedRepo) PurgeExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for jti, exp := range r.tokens {
		if !exp.After(time.Now()) {
			delete(r.tokens, jti)
			n++
		}
	}
	return n, nil
}

// fixture wires every fake together
type fixture struct {
	users     *fakeUserRepo
	requests  *fakeRequestRepo
	campaigns *fakeCampaignRepo
	parts     *fakeParticipationRepo
	badges    *fakeBadgeRepo
	revoked   *fakeRevokedRepo
}

func newFixture(users ...*models.User) *fixture {
	f := &fixture{
		users:    newFakeUserRepo(users...),
		requests: newFakeRequestRepo(),
		badges:   &fakeBadgeRepo{},
		revoked:  newFakeRevokedRepo(),
	}
	f.campaigns = newFakeCampaignRepo(f.requests)
	f.parts = &fakeParticipationRepo{campaigns: f.campaigns, users: f.users, badges: f.badges}
	return f
}

// seedCampaign creates a request in pincode and a campaign against it
func (f *fixture) seedCampaign(creatorID int64, pincode string, capacity int) *models.Campaign {
	ctx := context.Background()
	req := &models.Request{Email: "r@example.com", Pincode: pincode, Description: "litter", Address: "Somewhere", Status: models.RequestStatusPending}
	_ = f.requests.Create(ctx, req)

	c := &models.Campaign{
		Name:          "Cleanup",
		RequestID:     req.ID,
		NumVolunteers: capacity,
		Status:        models.CampaignStatusPlanned,
		CreatorID:     &creatorID,
	}
	_ = f.campaigns.Create(ctx, c)
	return c
}
