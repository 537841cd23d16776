package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"marketd/internal/server/models"
)

const (
	usersFileName = "users.txt"
	itemsFileName = "items.txt"
)

// The tables are flat files, one comma-separated record per line, with no
// escaping of embedded commas. A free-text field containing a comma
// therefore corrupts its record on reload; that is a known limitation of
// the format, kept for compatibility.

func (s *Store) usersPath() string { return filepath.Join(s.dataDir, usersFileName) }
func (s *Store) itemsPath() string { return filepath.Join(s.dataDir, itemsFileName) }

// writeUsersLocked rewrites the whole user table. Each record carries the
// derived item-id lists (active;purchased;sold) for compatibility with the
// historical format; they are recomputed from the item table here and
// ignored on load.
func (s *Store) writeUsersLocked() error {
	var b strings.Builder
	for _, user := range s.usersSortedLocked() {
		active := s.itemsLocked(func(it *models.Item) bool {
			return it.SellerID == user.ID && !it.Sold
		})
		purchased := s.itemsLocked(func(it *models.Item) bool {
			return it.Sold && it.BuyerID == user.ID
		})
		sold := s.itemsLocked(func(it *models.Item) bool {
			return it.SellerID == user.ID && it.Sold
		})

		b.WriteString(strings.Join([]string{
			user.Username,
			user.Password,
			user.Bio,
			formatFloat(user.Balance),
			user.ID,
			joinItemIDs(active),
			joinItemIDs(purchased),
			joinItemIDs(sold),
		}, ","))
		b.WriteByte('\n')
	}
	return writeFileAtomic(s.usersPath(), b.String())
}

// loadUsersLocked reads the user table. A missing file means a fresh data
// directory. The persisted item-id lists are skipped; the views they encode
// are recomputed from the item table on demand.
func (s *Store) loadUsersLocked(ctx context.Context) error {
	lines, err := readLines(s.usersPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, line := range lines {
		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			s.logger.Warn(ctx, "skipping malformed user record", "fields", len(parts))
			continue
		}

		balance, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			s.logger.Warn(ctx, "invalid balance, using 0", "user", parts[0])
			balance = 0
		}

		user := &models.User{
			Username: parts[0],
			Password: parts[1],
			Bio:      parts[2],
			Balance:  balance,
			ID:       parts[4],
		}
		s.usersByName[user.Username] = user
		s.usersByID[user.ID] = user
	}
	return nil
}

// writeItemsLocked rewrites the whole item table in creation order, so the
// order survives restarts and "oldest unrated sold item" stays stable. The
// trailing rating column is an extension over the historical 8-field
// format; the loader accepts both.
func (s *Store) writeItemsLocked() error {
	var b strings.Builder
	for _, item := range s.itemsLocked(func(*models.Item) bool { return true }) {
		buyer := ""
		if item.Sold {
			buyer = item.BuyerID
		}
		b.WriteString(strings.Join([]string{
			item.ID,
			item.SellerID,
			item.Title,
			item.Description,
			item.Category,
			formatFloat(item.Price),
			strconv.FormatBool(item.Sold),
			buyer,
			formatFloat(item.Rating),
		}, ","))
		b.WriteByte('\n')
	}
	return writeFileAtomic(s.itemsPath(), b.String())
}

// loadItemsLocked reads the item table, re-deriving tags from each
// description and assigning sequence numbers in file order.
func (s *Store) loadItemsLocked(ctx context.Context) error {
	lines, err := readLines(s.itemsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, line := range lines {
		parts := strings.Split(line, ",")
		if len(parts) < 6 {
			s.logger.Warn(ctx, "skipping malformed item record", "fields", len(parts))
			continue
		}

		price, err := strconv.ParseFloat(parts[5], 64)
		if err != nil {
			s.logger.Warn(ctx, "skipping item with invalid price", "item", parts[0])
			continue
		}

		item := &models.Item{
			ID:          parts[0],
			SellerID:    parts[1],
			Title:       parts[2],
			Description: parts[3],
			Category:    parts[4],
			Tags:        s.tagger.Extract(parts[3]),
			Price:       price,
			Seq:         s.nextSeqLocked(),
		}
		if len(parts) > 6 {
			item.Sold, _ = strconv.ParseBool(parts[6])
		}
		if item.Sold && len(parts) > 7 {
			item.BuyerID = parts[7]
		}
		if len(parts) > 8 {
			if rating, err := strconv.ParseFloat(parts[8], 64); err == nil {
				item.Rating = rating
			}
		}
		s.items[item.ID] = item
	}
	return nil
}

func (s *Store) usersSortedLocked() []*models.User {
	users := make([]*models.User, 0, len(s.usersByName))
	for _, u := range s.usersByName {
		users = append(users, u)
	}
	// Stable file order keeps diffs between rewrites meaningful.
	sortUsersByName(users)
	return users
}

func sortUsersByName(users []*models.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
}

func joinItemIDs(items []*models.Item) string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return strings.Join(ids, ";")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// writeFileAtomic writes content to a temp file in the target directory and
// renames it into place, so a crashed rewrite never leaves a truncated
// table behind.
func writeFileAtomic(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o660); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
