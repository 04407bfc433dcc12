package store

import (
	"time"

	"github.com/shouni/go-content-kit/pkg/domain"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	// DefaultTTL は生成したレポートを保持する時間です。
	DefaultTTL = 30 * time.Minute
	// DefaultCleanupInterval は期限切れエントリを掃除する間隔なのだ。
	DefaultCleanupInterval = 10 * time.Minute
)

// Entry は表示・ダウンロードのために一時的に保持するレポートです。
type Entry struct {
	ID        string
	Report    domain.ReportDocument
	Failed    bool
	CreatedAt time.Time
}

// ReportStore は、生成済みレポートを表示リンクとダウンロードリンクの間で受け渡すための
// 期限付きインメモリストアなのだ。モデルの返答をキャッシュして再利用することはしません。
type ReportStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewReportStore は TTL を指定して ReportStore を生成します。
func NewReportStore(ttl time.Duration) *ReportStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cleanup := DefaultCleanupInterval
	if ttl < cleanup {
		cleanup = ttl
	}
	return &ReportStore{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Put はレポートを保存し、新しいIDを振って返すのだ。
func (s *ReportStore) Put(report domain.ReportDocument, failed bool) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Report:    report,
		Failed:    failed,
		CreatedAt: time.Now(),
	}
	s.cache.Set(e.ID, e, cache.DefaultExpiration)
	return e
}

// Get はIDに対応するレポートを返します。期限切れや未登録なら false です。
func (s *ReportStore) Get(id string) (Entry, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return Entry{}, false
	}
	e, ok := v.(Entry)
	return e, ok
}

// Len は保持中のエントリ数を返します。
func (s *ReportStore) Len() int {
	return s.cache.ItemCount()
}
