// Package ledger は注文台帳のドメインロジックを提供する。
//
// 注文一覧はクライアントごとに丸ごと読み込み、登録・削除のたびに全体を書き戻す。
// セッションの有効性判定はsession.Policyを共有し、ログイン画面と同じ基準で行う。
package ledger

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SorynSolutions/soryn-order-tracker/internal/metrics"
	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
	"github.com/SorynSolutions/soryn-order-tracker/internal/repository"
	"github.com/SorynSolutions/soryn-order-tracker/internal/security"
	"github.com/SorynSolutions/soryn-order-tracker/internal/session"
)

// DateLayout は注文日時の表示形式（en-USの短縮形式）。
const DateLayout = "Jan 2, 2006, 03:04 PM"

// lockStripes はクライアント単位の排他に使うロック数。
const lockStripes = 64

// Config は注文台帳の設定。
type Config struct {
	Location *time.Location // 注文日時の表示タイムゾーン。nilの場合はUTC
}

// Service は注文台帳のサービス層。
type Service struct {
	policy    *session.Policy
	orders    repository.OrderRepository
	sanitizer security.Sanitizer
	ids       *IDGenerator
	metrics   metrics.Recorder
	loc       *time.Location
	now       func() time.Time

	locks [lockStripes]sync.Mutex
}

// NewService はServiceを生成する。
func NewService(
	policy *session.Policy,
	orders repository.OrderRepository,
	sanitizer security.Sanitizer,
	recorder metrics.Recorder,
	cfg Config,
) *Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		policy:    policy,
		orders:    orders,
		sanitizer: sanitizer,
		ids:       NewIDGenerator(),
		metrics:   recorder,
		loc:       loc,
		now:       time.Now,
	}
}

// ValidateSession は注文画面を表示してよいかを判定する。
// 有効なセッションがあればNavigateStay、なければNavigateLoginを返す。
// 期限切れのレコードは判定時に破棄される。
func (s *Service) ValidateSession(ctx context.Context, clientID string) (model.Navigation, *model.Session, error) {
	status, sess, err := s.policy.Check(ctx, clientID)
	if err != nil {
		return model.NavigateLogin, nil, err
	}
	if status != session.StatusValid {
		return model.NavigateLogin, nil, nil
	}
	return model.NavigateStay, sess, nil
}

// ListOrders は注文一覧を新しい順で返す。
// 保存データが壊れている場合は空の一覧として扱い、エラーにしない。
func (s *Service) ListOrders(ctx context.Context, clientID string) ([]model.Order, error) {
	orders, err := s.orders.Load(ctx, clientID)
	if errors.Is(err, model.ErrDecode) {
		s.metrics.RecordDecodeFailure()
		slog.Warn("stored orders could not be decoded, starting from an empty list",
			slog.String("client_id", clientID),
			slog.String("error", err.Error()),
		)
		return []model.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

// Summary は現在の注文一覧の集計値を返す。
func (s *Service) Summary(ctx context.Context, clientID string) (model.Summary, error) {
	orders, err := s.ListOrders(ctx, clientID)
	if err != nil {
		return model.Summary{}, err
	}
	return ComputeSummary(orders), nil
}

// SubmitOrder はフォーム入力を検証し、注文を一覧の先頭に追加して保存する。
//
// 検証順序:
//  1. サービス種別が1つも選択されていない → NO_SERVICE_TYPE
//  2. Lobby Tool以外でActivision IDが空 → MISSING_ACTIVISION_ID
//  3. Discordユーザー名が空 → MISSING_DISCORD_USERNAME
//  4. 数量・金額が負 → INVALID_AMOUNT
func (s *Service) SubmitOrder(ctx context.Context, clientID string, input model.OrderInput) (*model.Order, error) {
	for _, t := range input.ServiceTypes {
		if !t.Valid() {
			return nil, model.NewInvalidServiceTypeError(string(t))
		}
	}

	sel := NewSelection(input.ServiceTypes...)
	serviceTypes := sel.Active()
	if len(serviceTypes) == 0 {
		return nil, model.NewNoServiceTypeError()
	}
	lobbyTool := sel.Has(model.ServiceTypeLobbyTool)

	activisionID := s.sanitizer.Sanitize(strings.TrimSpace(input.ActivisionID))
	if !lobbyTool && activisionID == "" {
		return nil, model.NewMissingActivisionIDError()
	}
	if lobbyTool {
		activisionID = ""
	}

	discord := s.sanitizer.Sanitize(strings.TrimSpace(input.DiscordUsername))
	if discord == "" {
		return nil, model.NewMissingDiscordUsernameError()
	}

	quantity := parseQuantity(input.Quantity)
	if quantity < 0 {
		return nil, model.NewInvalidAmountError("Quantity")
	}
	moneySpent := parseAmount(input.MoneySpent)
	if moneySpent < 0 {
		return nil, model.NewInvalidAmountError("Money spent")
	}
	profit := parseAmount(input.Profit)
	if profit < 0 {
		return nil, model.NewInvalidAmountError("Profit")
	}

	unlock := s.lock(clientID)
	defer unlock()

	orders, err := s.ListOrders(ctx, clientID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := model.Order{
		ID:              s.ids.Next(orders),
		DiscordUsername: discord,
		ActivisionID:    activisionID,
		ServiceTypes:    serviceTypes,
		Quantity:        quantity,
		MoneySpent:      moneySpent,
		Profit:          profit,
		Date:            now.In(s.loc).Format(DateLayout),
	}

	updated := make([]model.Order, 0, len(orders)+1)
	updated = append(updated, order)
	updated = append(updated, orders...)

	if err := s.orders.SaveAll(ctx, clientID, updated); err != nil {
		return nil, fmt.Errorf("failed to save orders: %w", err)
	}

	s.metrics.RecordOrderCreated(string(serviceTypes[0]))
	slog.Info("order created",
		slog.String("client_id", clientID),
		slog.Int64("order_id", order.ID),
		slog.String("service_type", string(serviceTypes[0])),
	)

	return &order, nil
}

// DeleteOrder は指定IDの注文を1件削除し、一覧全体を保存する。
// 削除の確認は呼び出し側の責務。該当IDがない場合は一覧を変更せずORDER_NOT_FOUNDを返す。
func (s *Service) DeleteOrder(ctx context.Context, clientID string, id int64) error {
	unlock := s.lock(clientID)
	defer unlock()

	orders, err := s.ListOrders(ctx, clientID)
	if err != nil {
		return err
	}

	idx := -1
	for i, o := range orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.NewOrderNotFoundError(id)
	}

	updated := make([]model.Order, 0, len(orders)-1)
	updated = append(updated, orders[:idx]...)
	updated = append(updated, orders[idx+1:]...)

	if err := s.orders.SaveAll(ctx, clientID, updated); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}

	s.metrics.RecordOrderDeleted()
	slog.Info("order deleted",
		slog.String("client_id", clientID),
		slog.Int64("order_id", id),
	)

	return nil
}

// lock はクライアント単位の読み込み→変更→保存を直列化する。
func (s *Service) lock(clientID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
