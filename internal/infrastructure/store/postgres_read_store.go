package store

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/example/sticker-shop/internal/readmodel"
)

// PostgresReadStore implements ReadStoreInterface using PostgreSQL
type PostgresReadStore struct {
	db *sql.DB
	mu sync.RWMutex // for thread-safe operations
}

// NewPostgresReadStore creates a new PostgreSQL-based read store
func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

// Set stores a read model
func (rs *PostgresReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	switch collection {
	case "products":
		rs.setProductUnsafe(id, data.(*readmodel.ProductReadModel))
	case "carts":
		rs.setCartUnsafe(id, data.(*readmodel.CartReadModel))
	case "orders":
		rs.setOrderUnsafe(id, data.(*readmodel.OrderReadModel))
	case "users":
		rs.setUserUnsafe(id, data.(*readmodel.UserReadModel))
	case "sessions":
		rs.setSessionUnsafe(id, data.(*readmodel.SessionReadModel))
	case "loyalty":
		rs.setLoyaltyUnsafe(id, data.(*readmodel.LoyaltyReadModel))
	case "redemptions":
		rs.setRedemptionUnsafe(id, data.(*readmodel.RedemptionReadModel))
	case "offers":
		rs.setOfferUnsafe(id, data.(*readmodel.OfferReadModel))
	}
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	current, found := rs.getUnsafe(collection, id)
	if !found {
		return nil, false
	}
	return current, true
}

func (rs *PostgresReadStore) getUnsafe(collection, id string) (any, bool) {
	switch collection {
	case "products":
		return asAny(rs.getProductUnsafe(id))
	case "carts":
		return asAny(rs.getCartUnsafe(id))
	case "orders":
		return asAny(rs.getOrderUnsafe(id))
	case "users":
		return asAny(rs.getUserUnsafe(id))
	case "sessions":
		return asAny(rs.getSessionUnsafe(id))
	case "loyalty":
		return asAny(rs.getLoyaltyUnsafe(id))
	case "redemptions":
		return asAny(rs.getRedemptionUnsafe(id))
	case "offers":
		return asAny(rs.getOfferUnsafe(id))
	}
	return nil, false
}

func asAny[T any](v *T, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	return v, true
}

// GetAll retrieves all items in a collection
func (rs *PostgresReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	switch collection {
	case "products":
		return rs.getAllProducts()
	case "carts":
		return rs.getAllCarts()
	case "orders":
		return rs.getAllOrders()
	case "users":
		return rs.getAllUsers()
	case "sessions":
		return rs.getAllSessions()
	case "loyalty":
		return rs.getAllLoyalty()
	case "redemptions":
		return rs.getAllRedemptions()
	case "offers":
		return rs.getAllOffers()
	}
	return nil
}

// Delete removes a read model
func (rs *PostgresReadStore) Delete(collection, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	var tableName, keyColumn string
	switch collection {
	case "products":
		tableName, keyColumn = "read_products", "id"
	case "carts":
		tableName, keyColumn = "read_carts", "id"
	case "orders":
		tableName, keyColumn = "read_orders", "id"
	case "users":
		tableName, keyColumn = "read_users", "id"
	case "sessions":
		tableName, keyColumn = "user_sessions", "id"
	case "loyalty":
		tableName, keyColumn = "read_loyalty", "user_id"
	case "redemptions":
		tableName, keyColumn = "read_redemptions", "id"
	case "offers":
		tableName, keyColumn = "read_offers", "id"
	default:
		return
	}

	_, err := rs.db.Exec("DELETE FROM "+tableName+" WHERE "+keyColumn+" = $1", id)
	if err != nil {
		log.Printf("[PostgresReadStore] Error deleting from %s: %v", collection, err)
	}
}

// Update modifies a read model using an update function
func (rs *PostgresReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	current, found := rs.getUnsafe(collection, id)
	if !found {
		return false
	}

	updated := updateFn(current)

	switch collection {
	case "products":
		rs.setProductUnsafe(id, updated.(*readmodel.ProductReadModel))
	case "carts":
		rs.setCartUnsafe(id, updated.(*readmodel.CartReadModel))
	case "orders":
		rs.setOrderUnsafe(id, updated.(*readmodel.OrderReadModel))
	case "users":
		rs.setUserUnsafe(id, updated.(*readmodel.UserReadModel))
	case "sessions":
		rs.setSessionUnsafe(id, updated.(*readmodel.SessionReadModel))
	case "loyalty":
		rs.setLoyaltyUnsafe(id, updated.(*readmodel.LoyaltyReadModel))
	case "redemptions":
		rs.setRedemptionUnsafe(id, updated.(*readmodel.RedemptionReadModel))
	case "offers":
		rs.setOfferUnsafe(id, updated.(*readmodel.OfferReadModel))
	}

	return true
}

// Product operations

func (rs *PostgresReadStore) setProductUnsafe(id string, p *readmodel.ProductReadModel) {
	caseOptionsJSON, _ := json.Marshal(p.CaseOptions)
	_, err := rs.db.Exec(`
		INSERT INTO read_products (id, name, kind, category, description, price, image_url, case_options, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			kind = EXCLUDED.kind,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			case_options = EXCLUDED.case_options,
			updated_at = EXCLUDED.updated_at
	`, p.ID, p.Name, p.Kind, p.Category, p.Description, p.Price, p.ImageURL, caseOptionsJSON, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting product: %v", err)
	}
}

func (rs *PostgresReadStore) getProductUnsafe(id string) (*readmodel.ProductReadModel, bool) {
	var p readmodel.ProductReadModel
	var imageURL sql.NullString
	var caseOptionsJSON []byte
	err := rs.db.QueryRow(`
		SELECT id, name, kind, category, description, price, image_url, case_options, created_at, updated_at
		FROM read_products WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Kind, &p.Category, &p.Description, &p.Price, &imageURL, &caseOptionsJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting product: %v", err)
		}
		return nil, false
	}
	p.ImageURL = imageURL.String
	json.Unmarshal(caseOptionsJSON, &p.CaseOptions)
	return &p, true
}

func (rs *PostgresReadStore) getAllProducts() []any {
	rows, err := rs.db.Query(`
		SELECT id, name, kind, category, description, price, image_url, case_options, created_at, updated_at
		FROM read_products ORDER BY created_at DESC
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all products: %v", err)
		return nil
	}
	defer rows.Close()

	var products []any
	for rows.Next() {
		var p readmodel.ProductReadModel
		var imageURL sql.NullString
		var caseOptionsJSON []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Category, &p.Description, &p.Price, &imageURL, &caseOptionsJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			log.Printf("[PostgresReadStore] Error scanning product: %v", err)
			continue
		}
		p.ImageURL = imageURL.String
		json.Unmarshal(caseOptionsJSON, &p.CaseOptions)
		products = append(products, &p)
	}
	return products
}

// GetProductsByKind returns catalog products of one kind (sticker or keychain)
func (rs *PostgresReadStore) GetProductsByKind(kind string) []*readmodel.ProductReadModel {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	rows, err := rs.db.Query(`
		SELECT id, name, kind, category, description, price, image_url, case_options, created_at, updated_at
		FROM read_products WHERE kind = $1 ORDER BY created_at DESC
	`, kind)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting products by kind: %v", err)
		return nil
	}
	defer rows.Close()

	var products []*readmodel.ProductReadModel
	for rows.Next() {
		var p readmodel.ProductReadModel
		var imageURL sql.NullString
		var caseOptionsJSON []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Category, &p.Description, &p.Price, &imageURL, &caseOptionsJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			log.Printf("[PostgresReadStore] Error scanning product: %v", err)
			continue
		}
		p.ImageURL = imageURL.String
		json.Unmarshal(caseOptionsJSON, &p.CaseOptions)
		products = append(products, &p)
	}
	return products
}

// Cart operations

func (rs *PostgresReadStore) setCartUnsafe(id string, c *readmodel.CartReadModel) {
	linesJSON, _ := json.Marshal(c.Lines)
	_, err := rs.db.Exec(`
		INSERT INTO read_carts (id, user_id, lines, subtotal, keychain_units, bundle_eligible, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			lines = EXCLUDED.lines,
			subtotal = EXCLUDED.subtotal,
			keychain_units = EXCLUDED.keychain_units,
			bundle_eligible = EXCLUDED.bundle_eligible,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.UserID, linesJSON, c.Subtotal, c.KeychainUnits, c.BundleEligible, time.Now())
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting cart: %v", err)
	}
}

func (rs *PostgresReadStore) getCartUnsafe(id string) (*readmodel.CartReadModel, bool) {
	var c readmodel.CartReadModel
	var linesJSON []byte
	err := rs.db.QueryRow(`
		SELECT id, user_id, lines, subtotal, keychain_units, bundle_eligible
		FROM read_carts WHERE id = $1
	`, id).Scan(&c.ID, &c.UserID, &linesJSON, &c.Subtotal, &c.KeychainUnits, &c.BundleEligible)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting cart: %v", err)
		}
		return nil, false
	}
	json.Unmarshal(linesJSON, &c.Lines)
	return &c, true
}

func (rs *PostgresReadStore) getAllCarts() []any {
	rows, err := rs.db.Query(`SELECT id, user_id, lines, subtotal, keychain_units, bundle_eligible FROM read_carts`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all carts: %v", err)
		return nil
	}
	defer rows.Close()

	var carts []any
	for rows.Next() {
		var c readmodel.CartReadModel
		var linesJSON []byte
		if err := rows.Scan(&c.ID, &c.UserID, &linesJSON, &c.Subtotal, &c.KeychainUnits, &c.BundleEligible); err != nil {
			log.Printf("[PostgresReadStore] Error scanning cart: %v", err)
			continue
		}
		json.Unmarshal(linesJSON, &c.Lines)
		carts = append(carts, &c)
	}
	return carts
}

// Order operations

func (rs *PostgresReadStore) setOrderUnsafe(id string, o *readmodel.OrderReadModel) {
	linesJSON, _ := json.Marshal(o.Lines)
	_, err := rs.db.Exec(`
		INSERT INTO read_orders (id, user_id, lines, subtotal, gift_wrap_fee, offer_discount, loyalty_discount,
			delivery_fee, final_total, points_earned, shipping_name, shipping_address, shipping_pincode,
			shipping_phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			lines = EXCLUDED.lines,
			subtotal = EXCLUDED.subtotal,
			gift_wrap_fee = EXCLUDED.gift_wrap_fee,
			offer_discount = EXCLUDED.offer_discount,
			loyalty_discount = EXCLUDED.loyalty_discount,
			delivery_fee = EXCLUDED.delivery_fee,
			final_total = EXCLUDED.final_total,
			points_earned = EXCLUDED.points_earned,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`, o.ID, o.UserID, linesJSON, o.Subtotal, o.GiftWrapFee, o.OfferDiscount, o.LoyaltyDiscount,
		o.DeliveryFee, o.FinalTotal, o.PointsEarned, o.ShippingName, o.ShippingAddress, o.ShippingPincode,
		o.ShippingPhone, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting order: %v", err)
	}
}

func (rs *PostgresReadStore) getOrderUnsafe(id string) (*readmodel.OrderReadModel, bool) {
	var o readmodel.OrderReadModel
	var linesJSON []byte
	err := rs.db.QueryRow(`
		SELECT id, user_id, lines, subtotal, gift_wrap_fee, offer_discount, loyalty_discount,
			delivery_fee, final_total, points_earned, shipping_name, shipping_address, shipping_pincode,
			shipping_phone, status, created_at, updated_at
		FROM read_orders WHERE id = $1
	`, id).Scan(&o.ID, &o.UserID, &linesJSON, &o.Subtotal, &o.GiftWrapFee, &o.OfferDiscount, &o.LoyaltyDiscount,
		&o.DeliveryFee, &o.FinalTotal, &o.PointsEarned, &o.ShippingName, &o.ShippingAddress, &o.ShippingPincode,
		&o.ShippingPhone, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting order: %v", err)
		}
		return nil, false
	}
	json.Unmarshal(linesJSON, &o.Lines)
	return &o, true
}

func (rs *PostgresReadStore) getAllOrders() []any {
	rows, err := rs.db.Query(`
		SELECT id, user_id, lines, subtotal, gift_wrap_fee, offer_discount, loyalty_discount,
			delivery_fee, final_total, points_earned, shipping_name, shipping_address, shipping_pincode,
			shipping_phone, status, created_at, updated_at
		FROM read_orders ORDER BY created_at DESC
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all orders: %v", err)
		return nil
	}
	defer rows.Close()

	var orders []any
	for rows.Next() {
		var o readmodel.OrderReadModel
		var linesJSON []byte
		if err := rows.Scan(&o.ID, &o.UserID, &linesJSON, &o.Subtotal, &o.GiftWrapFee, &o.OfferDiscount, &o.LoyaltyDiscount,
			&o.DeliveryFee, &o.FinalTotal, &o.PointsEarned, &o.ShippingName, &o.ShippingAddress, &o.ShippingPincode,
			&o.ShippingPhone, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			log.Printf("[PostgresReadStore] Error scanning order: %v", err)
			continue
		}
		json.Unmarshal(linesJSON, &o.Lines)
		orders = append(orders, &o)
	}
	return orders
}

// User operations

func (rs *PostgresReadStore) setUserUnsafe(id string, u *readmodel.UserReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO read_users (id, email, password_hash, name, role, is_active, is_premium, premium_expires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			is_active = EXCLUDED.is_active,
			is_premium = EXCLUDED.is_premium,
			premium_expires = EXCLUDED.premium_expires,
			updated_at = EXCLUDED.updated_at
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive, u.IsPremium, nullTime(u.PremiumExpires), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting user: %v", err)
	}
}

func (rs *PostgresReadStore) getUserUnsafe(id string) (*readmodel.UserReadModel, bool) {
	var u readmodel.UserReadModel
	var premiumExpires sql.NullTime
	err := rs.db.QueryRow(`
		SELECT id, email, password_hash, name, role, is_active, is_premium, premium_expires, created_at, updated_at
		FROM read_users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive, &u.IsPremium, &premiumExpires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting user: %v", err)
		}
		return nil, false
	}
	u.PremiumExpires = premiumExpires.Time
	return &u, true
}

// GetUserByEmail retrieves a user by email
func (rs *PostgresReadStore) GetUserByEmail(email string) (*readmodel.UserReadModel, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	var u readmodel.UserReadModel
	var premiumExpires sql.NullTime
	err := rs.db.QueryRow(`
		SELECT id, email, password_hash, name, role, is_active, is_premium, premium_expires, created_at, updated_at
		FROM read_users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive, &u.IsPremium, &premiumExpires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting user by email: %v", err)
		}
		return nil, false
	}
	u.PremiumExpires = premiumExpires.Time
	return &u, true
}

func (rs *PostgresReadStore) getAllUsers() []any {
	rows, err := rs.db.Query(`
		SELECT id, email, password_hash, name, role, is_active, is_premium, premium_expires, created_at, updated_at
		FROM read_users ORDER BY created_at DESC
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all users: %v", err)
		return nil
	}
	defer rows.Close()

	var users []any
	for rows.Next() {
		var u readmodel.UserReadModel
		var premiumExpires sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive, &u.IsPremium, &premiumExpires, &u.CreatedAt, &u.UpdatedAt); err != nil {
			log.Printf("[PostgresReadStore] Error scanning user: %v", err)
			continue
		}
		u.PremiumExpires = premiumExpires.Time
		users = append(users, &u)
	}
	return users
}

// Session operations

func (rs *PostgresReadStore) setSessionUnsafe(id string, s *readmodel.SessionReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO user_sessions (id, user_id, refresh_token_hash, expires_at, created_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			refresh_token_hash = EXCLUDED.refresh_token_hash,
			expires_at = EXCLUDED.expires_at
	`, s.ID, s.UserID, s.RefreshTokenHash, s.ExpiresAt, s.CreatedAt, s.IPAddress, s.UserAgent)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting session: %v", err)
	}
}

func (rs *PostgresReadStore) getSessionUnsafe(id string) (*readmodel.SessionReadModel, bool) {
	var s readmodel.SessionReadModel
	err := rs.db.QueryRow(`
		SELECT id, user_id, refresh_token_hash, expires_at, created_at, ip_address, user_agent
		FROM user_sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.RefreshTokenHash, &s.ExpiresAt, &s.CreatedAt, &s.IPAddress, &s.UserAgent)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting session: %v", err)
		}
		return nil, false
	}
	return &s, true
}

// DeleteSessionsByUserID deletes all sessions for a user
func (rs *PostgresReadStore) DeleteSessionsByUserID(userID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	_, err := rs.db.Exec(`DELETE FROM user_sessions WHERE user_id = $1`, userID)
	if err != nil {
		log.Printf("[PostgresReadStore] Error deleting sessions: %v", err)
	}
}

// DeleteExpiredSessions removes expired sessions
func (rs *PostgresReadStore) DeleteExpiredSessions() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	_, err := rs.db.Exec(`DELETE FROM user_sessions WHERE expires_at < NOW()`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error deleting expired sessions: %v", err)
	}
}

func (rs *PostgresReadStore) getAllSessions() []any {
	rows, err := rs.db.Query(`
		SELECT id, user_id, refresh_token_hash, expires_at, created_at, ip_address, user_agent
		FROM user_sessions ORDER BY created_at DESC
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all sessions: %v", err)
		return nil
	}
	defer rows.Close()

	var sessions []any
	for rows.Next() {
		var s readmodel.SessionReadModel
		if err := rows.Scan(&s.ID, &s.UserID, &s.RefreshTokenHash, &s.ExpiresAt, &s.CreatedAt, &s.IPAddress, &s.UserAgent); err != nil {
			log.Printf("[PostgresReadStore] Error scanning session: %v", err)
			continue
		}
		sessions = append(sessions, &s)
	}
	return sessions
}

// Loyalty operations

func (rs *PostgresReadStore) setLoyaltyUnsafe(userID string, l *readmodel.LoyaltyReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO read_loyalty (user_id, points, tier, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			points = EXCLUDED.points,
			tier = EXCLUDED.tier,
			updated_at = EXCLUDED.updated_at
	`, l.UserID, l.Points, l.Tier, l.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting loyalty: %v", err)
	}
}

func (rs *PostgresReadStore) getLoyaltyUnsafe(userID string) (*readmodel.LoyaltyReadModel, bool) {
	var l readmodel.LoyaltyReadModel
	err := rs.db.QueryRow(`
		SELECT user_id, points, tier, updated_at FROM read_loyalty WHERE user_id = $1
	`, userID).Scan(&l.UserID, &l.Points, &l.Tier, &l.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting loyalty: %v", err)
		}
		return nil, false
	}
	return &l, true
}

func (rs *PostgresReadStore) getAllLoyalty() []any {
	rows, err := rs.db.Query(`SELECT user_id, points, tier, updated_at FROM read_loyalty`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all loyalty: %v", err)
		return nil
	}
	defer rows.Close()

	var accounts []any
	for rows.Next() {
		var l readmodel.LoyaltyReadModel
		if err := rows.Scan(&l.UserID, &l.Points, &l.Tier, &l.UpdatedAt); err != nil {
			log.Printf("[PostgresReadStore] Error scanning loyalty: %v", err)
			continue
		}
		accounts = append(accounts, &l)
	}
	return accounts
}

// Redemption operations

func (rs *PostgresReadStore) setRedemptionUnsafe(id string, r *readmodel.RedemptionReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO read_redemptions (id, user_id, reward_id, points_cost, used, redeemed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			used = EXCLUDED.used
	`, r.ID, r.UserID, r.RewardID, r.PointsCost, r.Used, r.RedeemedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting redemption: %v", err)
	}
}

func (rs *PostgresReadStore) getRedemptionUnsafe(id string) (*readmodel.RedemptionReadModel, bool) {
	var r readmodel.RedemptionReadModel
	err := rs.db.QueryRow(`
		SELECT id, user_id, reward_id, points_cost, used, redeemed_at
		FROM read_redemptions WHERE id = $1
	`, id).Scan(&r.ID, &r.UserID, &r.RewardID, &r.PointsCost, &r.Used, &r.RedeemedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting redemption: %v", err)
		}
		return nil, false
	}
	return &r, true
}

func (rs *PostgresReadStore) getAllRedemptions() []any {
	rows, err := rs.db.Query(`
		SELECT id, user_id, reward_id, points_cost, used, redeemed_at
		FROM read_redemptions ORDER BY redeemed_at DESC
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all redemptions: %v", err)
		return nil
	}
	defer rows.Close()

	var redemptions []any
	for rows.Next() {
		var r readmodel.RedemptionReadModel
		if err := rows.Scan(&r.ID, &r.UserID, &r.RewardID, &r.PointsCost, &r.Used, &r.RedeemedAt); err != nil {
			log.Printf("[PostgresReadStore] Error scanning redemption: %v", err)
			continue
		}
		redemptions = append(redemptions, &r)
	}
	return redemptions
}

// Offer operations

func (rs *PostgresReadStore) setOfferUnsafe(id string, o *readmodel.OfferReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO read_offers (id, user_id, source, label, discount_percent, expires_at, consumed, granted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			consumed = EXCLUDED.consumed
	`, o.ID, o.UserID, o.Source, o.Label, o.DiscountPercent, o.ExpiresAt, o.Consumed, o.GrantedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting offer: %v", err)
	}
}

func (rs *PostgresReadStore) getOfferUnsafe(id string) (*readmodel.OfferReadModel, bool) {
	var o readmodel.OfferReadModel
	err := rs.db.QueryRow(`
		SELECT id, user_id, source, label, discount_percent, expires_at, consumed, granted_at
		FROM read_offers WHERE id = $1
	`, id).Scan(&o.ID, &o.UserID, &o.Source, &o.Label, &o.DiscountPercent, &o.ExpiresAt, &o.Consumed, &o.GrantedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting offer: %v", err)
		}
		return nil, false
	}
	return &o, true
}

func (rs *PostgresReadStore) getAllOffers() []any {
	rows, err := rs.db.Query(`
		SELECT id, user_id, source, label, discount_percent, expires_at, consumed, granted_at
		FROM read_offers ORDER BY granted_at DESC
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all offers: %v", err)
		return nil
	}
	defer rows.Close()

	var offers []any
	for rows.Next() {
		var o readmodel.OfferReadModel
		if err := rows.Scan(&o.ID, &o.UserID, &o.Source, &o.Label, &o.DiscountPercent, &o.ExpiresAt, &o.Consumed, &o.GrantedAt); err != nil {
			log.Printf("[PostgresReadStore] Error scanning offer: %v", err)
			continue
		}
		offers = append(offers, &o)
	}
	return offers
}

// Helper function
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
