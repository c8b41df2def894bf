package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sideshelf/sideshelf/internal/cascade"
	"github.com/sideshelf/sideshelf/internal/domain/entity"
	repo "github.com/sideshelf/sideshelf/internal/domain/repository"
)

var errFakeNotFound = errors.New("not found")

var (
	_ cascade.Store             = (*memStore)(nil)
	_ repo.UserRepository       = (*fakeUserRepo)(nil)
	_ repo.ProjectRepository    = (*fakeProjectRepo)(nil)
	_ repo.EngagementRepository = (*fakeEngagementRepo)(nil)
	_ repo.DigestRepository     = (*fakeDigestRepo)(nil)
)

// memStore is a tiny in-memory cascade.Store so service tests can run the
// real engine without a live document database.
type memStore struct {
	mu   sync.Mutex
	docs map[string]map[string]map[string]any // collection -> id -> fields
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]map[string]map[string]any)}
}

func (m *memStore) put(collection, id string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]any)
	}
	m.docs[collection][id] = fields
}

func (m *memStore) exists(collection, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[collection][id]
	return ok
}

func (m *memStore) field(collection, id, field string) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[collection][id]
	if !ok {
		return nil
	}
	return doc[field]
}

func (m *memStore) FindRefs(ctx context.Context, collection, field string, value any) ([]cascade.DocRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var refs []cascade.DocRef
	for id, doc := range m.docs[collection] {
		if doc[field] == value {
			refs = append(refs, cascade.DocRef{Collection: collection, ID: id})
		}
	}
	return refs, nil
}

func (m *memStore) FindRefsIn(ctx context.Context, collection, field string, values []string) ([]cascade.DocRef, error) {
	var refs []cascade.DocRef
	for _, v := range values {
		sub, err := m.FindRefs(ctx, collection, field, v)
		if err != nil {
			return nil, err
		}
		refs = append(refs, sub...)
	}
	return refs, nil
}

func (m *memStore) Count(ctx context.Context, collection string, filters map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, doc := range m.docs[collection] {
		matched := true
		for field, want := range filters {
			if doc[field] != want {
				matched = false
				break
			}
		}
		if matched {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Commit(ctx context.Context, ops []cascade.Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range ops {
		switch op.Kind {
		case cascade.OpDelete:
			delete(m.docs[op.Ref.Collection], op.Ref.ID)
		case cascade.OpUpdate:
			doc, ok := m.docs[op.Ref.Collection][op.Ref.ID]
			if !ok {
				continue
			}
			for k, v := range op.Fields {
				doc[k] = v
			}
		}
	}
	return nil
}

// fakeUserRepo keeps users in a map and records UpdateFields calls.
type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[string]*entity.User
	fieldUpdates map[string]map[string]any
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:        make(map[string]*entity.User),
		fieldUpdates: make(map[string]map[string]any),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = fmt.Sprintf("u%03d", len(r.users)+1)
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return errFakeNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errFakeNotFound
	}
	r.fieldUpdates[id] = fields
	if v, ok := fields["isWithdrawn"].(bool); ok {
		u.IsWithdrawn = v
	}
	return nil
}

// fakeProjectRepo keeps projects in a map.
type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*entity.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*entity.Project)}
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = fmt.Sprintf("p%03d", len(r.projects)+1)
	}
	r.projects[p.ID] = p
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; !ok {
		return errFakeNotFound
	}
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) List(ctx context.Context, limit int) ([]*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if len(out) >= limit {
			break
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProjectRepo) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Project
	for _, p := range r.projects {
		if p.AuthorID == authorID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) AdjustLikeCount(ctx context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return errFakeNotFound
	}
	p.LikeCount += delta
	return nil
}

// fakeEngagementRepo covers likes and comments; whispers and reactions are
// appended to flat slices.
type fakeEngagementRepo struct {
	mu        sync.Mutex
	comments  []*entity.Comment
	likes     map[string]*entity.Like
	whispers  []*entity.Whisper
	reactions []*entity.Reaction
}

func newFakeEngagementRepo() *fakeEngagementRepo {
	return &fakeEngagementRepo{likes: make(map[string]*entity.Like)}
}

func (r *fakeEngagementRepo) CreateComment(ctx context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = fmt.Sprintf("c%03d", len(r.comments)+1)
	}
	r.comments = append(r.comments, c)
	return nil
}

func (r *fakeEngagementRepo) ListComments(ctx context.Context, projectID string, limit int) ([]*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Comment
	for _, c := range r.comments {
		if c.ProjectID == projectID && len(out) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeEngagementRepo) CreateLike(ctx context.Context, l *entity.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = entity.LikeID(l.UserID, l.ProjectID)
	r.likes[l.ID] = l
	return nil
}

func (r *fakeEngagementRepo) DeleteLike(ctx context.Context, userID, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, entity.LikeID(userID, projectID))
	return nil
}

func (r *fakeEngagementRepo) HasLiked(ctx context.Context, userID, projectID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[entity.LikeID(userID, projectID)]
	return ok, nil
}

func (r *fakeEngagementRepo) CreateWhisper(ctx context.Context, w *entity.Whisper) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == "" {
		w.ID = fmt.Sprintf("w%03d", len(r.whispers)+1)
	}
	r.whispers = append(r.whispers, w)
	return nil
}

func (r *fakeEngagementRepo) ListWhispers(ctx context.Context, projectID string, limit int) ([]*entity.Whisper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Whisper
	for _, w := range r.whispers {
		if w.ProjectID == projectID && len(out) < limit {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeEngagementRepo) CreateReaction(ctx context.Context, re *entity.Reaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if re.ID == "" {
		re.ID = fmt.Sprintf("r%03d", len(r.reactions)+1)
	}
	r.reactions = append(r.reactions, re)
	return nil
}

func (r *fakeEngagementRepo) ListReactions(ctx context.Context, projectID string, limit int) ([]*entity.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Reaction
	for _, re := range r.reactions {
		if re.ProjectID == projectID && len(out) < limit {
			out = append(out, re)
		}
	}
	return out, nil
}

// fakeDigestRepo keeps digests and subscriptions in maps.
type fakeDigestRepo struct {
	mu      sync.Mutex
	digests map[string]*entity.Digest
	subs    map[string]*entity.DigestSubscription // userId_digestId
}

func newFakeDigestRepo() *fakeDigestRepo {
	return &fakeDigestRepo{
		digests: make(map[string]*entity.Digest),
		subs:    make(map[string]*entity.DigestSubscription),
	}
}

func (r *fakeDigestRepo) Create(ctx context.Context, d *entity.Digest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == "" {
		d.ID = fmt.Sprintf("d%03d", len(r.digests)+1)
	}
	r.digests[d.ID] = d
	return nil
}

func (r *fakeDigestRepo) GetByID(ctx context.Context, id string) (*entity.Digest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.digests[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDigestRepo) List(ctx context.Context, limit int) ([]*entity.Digest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Digest, 0, len(r.digests))
	for _, d := range r.digests {
		if len(out) >= limit {
			break
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDigestRepo) Subscribe(ctx context.Context, userID, digestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := userID + "_" + digestID
	r.subs[id] = &entity.DigestSubscription{ID: id, UserID: userID, DigestID: digestID, IsActive: true}
	return nil
}

func (r *fakeDigestRepo) Unsubscribe(ctx context.Context, userID, digestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.subs[userID+"_"+digestID]; ok {
		sub.IsActive = false
	}
	return nil
}

func (r *fakeDigestRepo) ListActiveSubscriptions(ctx context.Context, digestID string) ([]*entity.DigestSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.DigestSubscription
	for _, sub := range r.subs {
		if sub.DigestID == digestID && sub.IsActive {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}
