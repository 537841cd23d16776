package tcp

import (
	"context"
	"errors"
	"strconv"

	"marketd/internal/common"
	"marketd/internal/logging"
	"marketd/internal/protocol"
	"marketd/internal/server/payments"
	"marketd/internal/server/search"
	"marketd/internal/server/store"
)

const invalidParameters = "invalid parameters"

// Handler parses one request line, invokes the store, payment processor or
// search engine, and renders the response line. Any failure becomes a
// "<CMD>,FAILURE[,reason]" response; nothing a handler does can take down
// the connection, let alone the server.
type Handler struct {
	store      *store.Store
	payments   *payments.Processor
	search     *search.Service
	maxResults int
	logger     logging.Logger
}

func NewHandler(st *store.Store, proc *payments.Processor, svc *search.Service, maxResults int, logger logging.Logger) *Handler {
	return &Handler{
		store:      st,
		payments:   proc,
		search:     svc,
		maxResults: maxResults,
		logger:     logger.With("module", "handler"),
	}
}

// Handle dispatches a single request line and returns the response line.
func (h *Handler) Handle(ctx context.Context, line string) (response string) {
	fields := protocol.Split(line)
	cmd := fields[0]

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error(ctx, "handler panicked", "command", cmd, "panic", r)
			response = protocol.Failure(cmd, common.ErrInternal.Error())
		}
	}()

	switch cmd {
	case protocol.CmdRegister:
		return h.handleRegister(ctx, fields)
	case protocol.CmdLogin:
		return h.handleLogin(ctx, fields)
	case protocol.CmdDeleteAccount:
		return h.handleDeleteAccount(ctx, fields)
	case protocol.CmdAddItem:
		return h.handleAddItem(ctx, fields)
	case protocol.CmdGetItem:
		return h.handleGetItem(ctx, fields)
	case protocol.CmdSearchItems:
		return h.handleSearchItems(ctx, fields)
	case protocol.CmdGetUserListings:
		return h.handleGetUserListings(ctx, fields)
	case protocol.CmdMarkSold:
		return h.handleMarkSold(ctx, fields)
	case protocol.CmdRemoveItem:
		return h.handleRemoveItem(ctx, fields)
	case protocol.CmdSendMessage:
		return h.handleSendMessage(ctx, fields)
	case protocol.CmdGetMessages:
		return h.handleGetMessages(ctx, fields)
	case protocol.CmdGetConversations:
		return h.handleGetConversations(ctx, fields)
	case protocol.CmdAddFunds:
		return h.handleAddFunds(ctx, fields)
	case protocol.CmdWithdrawFunds:
		return h.handleWithdrawFunds(ctx, fields)
	case protocol.CmdProcessPurchase:
		return h.handleProcessPurchase(ctx, fields)
	case protocol.CmdRateSeller:
		return h.handleRateSeller(ctx, fields)
	case protocol.CmdGetRating:
		return h.handleGetRating(ctx, fields)
	case protocol.CmdGetMyRating:
		return h.handleGetMyRating(ctx, fields)
	case protocol.CmdGetAllUsers:
		return h.handleGetAllUsers(ctx, fields)
	case protocol.CmdGetActiveSellers:
		return h.handleGetActiveSellers(ctx, fields)
	case protocol.CmdGetBalance:
		return h.handleGetBalance(ctx, fields)
	default:
		return protocol.UnknownCommand(cmd)
	}
}

func (h *Handler) handleRegister(ctx context.Context, fields []string) string {
	if len(fields) < 4 {
		return protocol.Failure(protocol.CmdRegister, invalidParameters)
	}
	username, password, bio := fields[1], fields[2], fields[3]

	if _, err := h.store.AddUser(ctx, username, password, bio); err != nil {
		return h.failure(ctx, protocol.CmdRegister, err)
	}
	h.logger.Info(ctx, "user registered", "username", username)
	return protocol.Success(protocol.CmdRegister)
}

func (h *Handler) handleLogin(ctx context.Context, fields []string) string {
	if len(fields) < 3 {
		return protocol.Failure(protocol.CmdLogin, invalidParameters)
	}

	user, err := h.store.Login(ctx, fields[1], fields[2])
	if err != nil {
		return h.failure(ctx, protocol.CmdLogin, err)
	}
	return protocol.Success(protocol.CmdLogin, user.ID)
}

func (h *Handler) handleDeleteAccount(ctx context.Context, fields []string) string {
	if len(fields) < 2 {
		return protocol.Failure(protocol.CmdDeleteAccount, invalidParameters)
	}

	if err := h.store.DeleteUser(ctx, fields[1]); err != nil {
		return h.failure(ctx, protocol.CmdDeleteAccount, err)
	}
	h.logger.Info(ctx, "account deleted", "user", fields[1])
	return protocol.Success(protocol.CmdDeleteAccount)
}

func (h *Handler) handleAddItem(ctx context.Context, fields []string) string {
	if len(fields) < 6 {
		return protocol.Failure(protocol.CmdAddItem, invalidParameters)
	}
	sellerID, title, description, category := fields[1], fields[2], fields[3], fields[4]

	price, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return protocol.Failure(protocol.CmdAddItem, "invalid price")
	}

	item, err := h.store.AddItem(ctx, sellerID, title, description, category, price)
	if err != nil {
		return h.failure(ctx, protocol.CmdAddItem, err)
	}
	return protocol.Success(protocol.CmdAddItem, item.ID)
}

func (h *Handler) handleGetItem(ctx context.Context, fields []string) string {
	if len(fields) < 2 {
		return protocol.Failure(protocol.CmdGetItem, invalidParameters)
	}

	item, err := h.store.GetItem(ctx, fields[1])
	if err != nil {
		return h.failure(ctx, protocol.CmdGetItem, err)
	}

	payload := []string{
		item.ID,
		item.SellerID,
		item.Title,
		item.Description,
		item.Category,
		protocol.FormatAmount(item.Price),
		protocol.FormatBool(item.Sold),
	}
	if item.Sold {
		payload = append(payload, item.BuyerID)
	}
	return protocol.Success(protocol.CmdGetItem, payload...)
}

func (h *Handler) handleSearchItems(ctx context.Context, fields []string) string {
	if len(fields) < 2 {
		return protocol.Failure(protocol.CmdSearchItems, invalidParameters)
	}
	query := fields[1]

	category := ""
	if len(fields) > 2 {
		category = fields[2]
	}

	maxResults := h.maxResults
	if len(fields) > 3 && fields[3] != "" {
		n, err := strconv.Atoi(fields[3])
		if err != nil {
			return protocol.Failure(protocol.CmdSearchItems, "invalid max results")
		}
		maxResults = n
	}

	results := h.search.Search(ctx, query, category, maxResults)

	payload := []string{strconv.Itoa(len(results))}
	for _, item := range results {
		payload = append(payload, item.ID, item.Title)
	}
	return protocol.Success(protocol.CmdSearchItems, payload...)
}

func (h *Handler) handleGetUserListings(ctx context.Context, fields []string) string {
	if len(fields) < 3 {
		return protocol.Failure(protocol.CmdGetUserListings, invalidParameters)
	}

	activeOnly, err := strconv.ParseBool(fields[2])
	if err != nil {
		return protocol.Failure(protocol.CmdGetUserListings, invalidParameters)
	}

	items, err := h.store.Listings(ctx, fields[1], activeOnly)
	if err != nil {
		return h.failure(ctx, protocol.CmdGetUserListings, err)
	}

	payload := []string{strconv.Itoa(len(items))}
	for _, item := range items {
		payload = append(payload,
			item.ID, item.Title, protocol.FormatAmount(item.Price), protocol.FormatBool(item.Sold))
	}
	return protocol.Success(protocol.CmdGetUserListings, payload...)
}

func (h *Handler) handleMarkSold(ctx context.Context, fields []string) string {
	if len(fields) < 3 {
		return protocol.Failure(protocol.CmdMarkSold, invalidParameters)
	}

	if err := h.store.MarkSold(ctx, fields[1], fields[2]); err != nil {
		return h.failure(ctx, protocol.CmdMarkSold, err)
	}
	return protocol.Success(protocol.CmdMarkSold)
}

func (h *Handler) handleRemoveItem(ctx context.Context, fields []string) string {
	if len(fields) < 3 {
		return protocol.Failure(protocol.CmdRemoveItem, invalidParameters)
	}

	if err := h.store.RemoveItem(ctx, fields[1], fields[2]); err != nil {
		return h.failure(ctx, protocol.CmdRemoveItem, err)
	}
	return protocol.Success(protocol.CmdRemoveItem)
}

func (h *Handler) handleSendMessage(ctx context.Context, fields []string) string {
	if len(fields) < 5 {
		return protocol.Failure(protocol.CmdSendMessage, invalidParameters)
	}
	senderID, receiverID, content, itemID := fields[1], fields[2], fields[3], fields[4]

	if _, err := h.store.AddMessage(ctx, senderID, receiverID, content, itemID); err != nil {
		return h.failure(ctx, protocol.CmdSendMessage, err)
	}
	return protocol.Success(protocol.CmdSendMessage)
}

func (h *Handler) handleGetMessages(ctx context.Context, fields []string) string {
	if len(fields) < 3 {
		return protocol.Failure(protocol.CmdGetMessages, invalidParameters)
	}

	messages := h.store.MessagesBetween(ctx, fields[1], fields[2])

	payload := []string{strconv.Itoa(len(messages))}
	for _, m := range messages {
		payload = append(payload,
			m.ID, m.SenderID, m.ReceiverID, strconv.FormatInt(m.Timestamp, 10), m.Content)
	}
	return protocol.Success(protocol.CmdGetMessages, payload...)
}

func (h *Handler) handleGetConversations(ctx context.Context, fields []string) string {
	if len(fields) < 2 {
		return protocol.Failure(protocol.CmdGetConversations, invalidParameters)
	}

	partners, err := h.store.ConversationPartners(ctx, fields[1])
	if err != nil {
		return h.failure(ctx, protocol.CmdGetConversations, err)
	}

	// Partners whose account is gone are skipped rather than reported with
	// a dangling id.
	type pair struct{ id, username string }
	var resolved []pair
	for _, id := range partners {
		if partner, err := h.store.GetUserByID(ctx, id); err == nil {
			resolved = append(resolved, pair{id: id, username: partner.Username})
		}
	}

	payload := []string{strconv.Itoa(len(resolved))}
	for _, p := range resolved {
		payload = append(payload, p.id, p.username)
	}
	return protocol.Success(protocol.CmdGetConversations, payload...)
}

func (h *Handler) handleAddFunds(ctx context.Context, fields []string) string {
	amount, errResp := h.parseAmount(protocol.CmdAddFunds, fields)
	if errResp != "" {
		return errResp
	}

	if err := h.payments.AddFunds(ctx, fields[1], amount); err != nil {
		return h.failure(ctx, protocol.CmdAddFunds, err)
	}
	return protocol.Success(protocol.CmdAddFunds)
}

func (h *Handler) handleWithdrawFunds(ctx context.Context, fields []string) string {
	amount, errResp := h.parseAmount(protocol.CmdWithdrawFunds, fields)
	if errResp != "" {
		return errResp
	}

	if err := h.payments.WithdrawFunds(ctx, fields[1], amount); err != nil {
		return h.failure(ctx, protocol.CmdWithdrawFunds, err)
	}
	return protocol.Success(protocol.CmdWithdrawFunds)
}

func (h *Handler) handleProcessPurchase(ctx context.Context, fields []string) string {
	if len(fields) < 3 {
		return protocol.Failure(protocol.CmdProcessPurchase, invalidParameters)
	}

	if err := h.payments.ProcessPurchase(ctx, fields[1], fields[2]); err != nil {
		return h.failure(ctx, protocol.CmdProcessPurchase, err)
	}
	return protocol.Success(protocol.CmdProcessPurchase)
}

func (h *Handler) handleRateSeller(ctx context.Context, fields []string) string {
	if len(fields) < 3 {
		return protocol.Failure(protocol.CmdRateSeller, invalidParameters)
	}

	rating, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return protocol.Failure(protocol.CmdRateSeller, "invalid rating")
	}

	if err := h.payments.RateSeller(ctx, fields[1], rating); err != nil {
		return h.failure(ctx, protocol.CmdRateSeller, err)
	}
	return protocol.Success(protocol.CmdRateSeller)
}

func (h *Handler) handleGetRating(ctx context.Context, fields []string) string {
	if len(fields) < 2 {
		return protocol.Failure(protocol.CmdGetRating, invalidParameters)
	}

	avg, _, err := h.payments.SellerRating(ctx, fields[1])
	if err != nil {
		return h.failure(ctx, protocol.CmdGetRating, err)
	}
	return protocol.Success(protocol.CmdGetRating, protocol.FormatAmount(avg))
}

func (h *Handler) handleGetMyRating(ctx context.Context, fields []string) string {
	if len(fields) < 2 {
		return protocol.Failure(protocol.CmdGetMyRating, invalidParameters)
	}

	avg, count, err := h.payments.SellerRating(ctx, fields[1])
	if err != nil {
		return h.failure(ctx, protocol.CmdGetMyRating, err)
	}
	return protocol.Success(protocol.CmdGetMyRating, protocol.FormatAmount(avg), strconv.Itoa(count))
}

func (h *Handler) handleGetAllUsers(ctx context.Context, fields []string) string {
	users := h.store.AllUsers(ctx)

	payload := []string{strconv.Itoa(len(users))}
	for _, u := range users {
		payload = append(payload, u.ID, u.Username)
	}
	return protocol.Success(protocol.CmdGetAllUsers, payload...)
}

func (h *Handler) handleGetActiveSellers(ctx context.Context, fields []string) string {
	sellers := h.store.ActiveSellers(ctx)

	payload := []string{strconv.Itoa(len(sellers))}
	for _, u := range sellers {
		payload = append(payload, u.ID, u.Username)
	}
	return protocol.Success(protocol.CmdGetActiveSellers, payload...)
}

func (h *Handler) handleGetBalance(ctx context.Context, fields []string) string {
	if len(fields) < 2 {
		return protocol.Failure(protocol.CmdGetBalance, invalidParameters)
	}

	user, err := h.store.GetUserByID(ctx, fields[1])
	if err != nil {
		return h.failure(ctx, protocol.CmdGetBalance, err)
	}
	return protocol.Success(protocol.CmdGetBalance, protocol.FormatAmount(user.Balance))
}

// parseAmount validates the shared "<CMD>,userId,amount" shape. It returns
// the parsed amount, or a ready failure response in the second value.
func (h *Handler) parseAmount(cmd string, fields []string) (float64, string) {
	if len(fields) < 3 {
		return 0, protocol.Failure(cmd, invalidParameters)
	}
	amount, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, protocol.Failure(cmd, "invalid amount")
	}
	return amount, ""
}

// domainErrors are the failures whose text is safe and useful as a wire
// reason. Anything else is reported as an internal error and logged.
var domainErrors = []error{
	common.ErrNotFound,
	common.ErrUsernameTaken,
	common.ErrNotSeller,
	common.ErrUnauthorized,
	common.ErrAlreadySold,
	common.ErrSelfPurchase,
	common.ErrInsufficientFunds,
	common.ErrInvalidAmount,
	common.ErrInvalidPrice,
	common.ErrInvalidRating,
	common.ErrNoSoldItems,
	common.ErrAllItemsRated,
}

func (h *Handler) failure(ctx context.Context, cmd string, err error) string {
	for _, sentinel := range domainErrors {
		if errors.Is(err, sentinel) {
			return protocol.Failure(cmd, sentinel.Error())
		}
	}
	h.logger.Error(ctx, "request failed", "command", cmd, "error", err)
	return protocol.Failure(cmd, common.ErrInternal.Error())
}
