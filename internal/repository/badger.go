package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pixelforge/internal/config"
	"pixelforge/internal/models"
	"pixelforge/pkg/logger"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// BadgerStore implements RecordStore on an embedded BadgerDB.
//
// Key families:
//
//	user:id:{id}            user record (JSON)
//	user:name:{username}    unique index -> id
//	user:email:{email}      unique index -> id
//	image:id:{id}           image record (JSON)
//	image:owner:{uid}:{id}  owner index (empty value)
//	tf:id:{id}              transformation record (JSON)
//	tf:image:{imageID}:{id} image index (empty value)
//	tf:fp:{imageID}:{sha}   parameter fingerprint -> id
//
// IDs are zero-padded in keys so lexicographic iteration order equals
// creation order.
type BadgerStore struct {
	db *badger.DB

	userSeq      *badger.Sequence
	imageSeq     *badger.Sequence
	transformSeq *badger.Sequence
}

var _ RecordStore = (*BadgerStore)(nil)

// NewBadgerStore opens (or creates) the record store at the configured directory
func NewBadgerStore(cfg *config.DatabaseConfig) (*BadgerStore, error) {
	logger.Info("Initializing record store",
		zap.String("directory", cfg.Directory))

	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Directory)
	opts.Logger = &badgerLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	store := &BadgerStore{db: db}
	for _, s := range []struct {
		name string
		dst  **badger.Sequence
	}{
		{"seq:user", &store.userSeq},
		{"seq:image", &store.imageSeq},
		{"seq:transform", &store.transformSeq},
	} {
		seq, err := db.GetSequence([]byte(s.name), 64)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to open sequence %s: %w", s.name, err)
		}
		*s.dst = seq
	}

	logger.Info("Record store initialized successfully")
	return store, nil
}

// CreateUser persists a new user with unique username and email
func (s *BadgerStore) CreateUser(ctx context.Context, user *models.User) error {
	id, err := nextID(s.userSeq)
	if err != nil {
		return fmt.Errorf("failed to allocate user ID: %w", err)
	}
	user.ID = id
	user.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	nameKey := []byte("user:name:" + strings.ToLower(user.Username))
	emailKey := []byte("user:email:" + strings.ToLower(user.Email))
	idValue := []byte(strconv.FormatInt(id, 10))

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(nameKey); err == nil {
			return models.ConflictError{Resource: "user", Field: "username"}
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if _, err := txn.Get(emailKey); err == nil {
			return models.ConflictError{Resource: "user", Field: "email"}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if err := txn.Set(userKey(id), data); err != nil {
			return err
		}
		if err := txn.Set(nameKey, idValue); err != nil {
			return err
		}
		return txn.Set(emailKey, idValue)
	})
	if err != nil {
		if _, ok := err.(models.ConflictError); ok {
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.DebugWithContext(ctx, "User created",
		zap.Int64("id", id),
		zap.String("username", user.Username))
	return nil
}

// GetUser retrieves a user by ID
func (s *BadgerStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.getJSON(userKey(id), &user); err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, models.NotFoundError{Resource: "user", ID: strconv.FormatInt(id, 10)}
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user through the username index
func (s *BadgerStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUserByIndex(ctx, "user:name:"+strings.ToLower(username), username)
}

// GetUserByEmail retrieves a user through the email index
func (s *BadgerStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUserByIndex(ctx, "user:email:"+strings.ToLower(email), email)
}

func (s *BadgerStore) getUserByIndex(ctx context.Context, indexKey, display string) (*models.User, error) {
	var id int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(indexKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id, err = strconv.ParseInt(string(val), 10, 64)
			return err
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, models.NotFoundError{Resource: "user", ID: display}
		}
		return nil, fmt.Errorf("failed to resolve user index: %w", err)
	}
	return s.GetUser(ctx, id)
}

// CreateImage persists a new image record
func (s *BadgerStore) CreateImage(ctx context.Context, img *models.Image) error {
	id, err := nextID(s.imageSeq)
	if err != nil {
		return fmt.Errorf("failed to allocate image ID: %w", err)
	}
	img.ID = id
	img.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(img)
	if err != nil {
		return fmt.Errorf("failed to marshal image: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(imageKey(id), data); err != nil {
			return err
		}
		return txn.Set(imageOwnerKey(img.UserID, id), nil)
	})
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	logger.DebugWithContext(ctx, "Image record created",
		zap.Int64("image_id", id),
		zap.Int64("user_id", img.UserID))
	return nil
}

// GetImage retrieves an image by ID
func (s *BadgerStore) GetImage(ctx context.Context, id int64) (*models.Image, error) {
	var img models.Image
	if err := s.getJSON(imageKey(id), &img); err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, models.NotFoundError{Resource: "image", ID: strconv.FormatInt(id, 10)}
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &img, nil
}

// ListImages returns one page of a user's images, newest first, plus the total
func (s *BadgerStore) ListImages(ctx context.Context, userID int64, offset, limit int) ([]*models.Image, int, error) {
	ids, err := s.collectIndexedIDs(fmt.Sprintf("image:owner:%020d:", userID))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list images: %w", err)
	}

	total := len(ids)
	reverse(ids)

	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []*models.Image{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	images := make([]*models.Image, 0, end-offset)
	for _, id := range ids[offset:end] {
		img, err := s.GetImage(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		images = append(images, img)
	}
	return images, total, nil
}

// DeleteImage removes an image record and its owner index entry
func (s *BadgerStore) DeleteImage(ctx context.Context, id int64) error {
	img, err := s.GetImage(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(imageKey(id)); err != nil {
			return err
		}
		return txn.Delete(imageOwnerKey(img.UserID, id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	logger.DebugWithContext(ctx, "Image record deleted", zap.Int64("image_id", id))
	return nil
}

// CreateTransformation persists a transformation and its lookup indexes.
// Concurrent identical requests may each create a record; the fingerprint
// index then points at the last writer and both records stay readable.
func (s *BadgerStore) CreateTransformation(ctx context.Context, t *models.Transformation) error {
	id, err := nextID(s.transformSeq)
	if err != nil {
		return fmt.Errorf("failed to allocate transformation ID: %w", err)
	}
	t.ID = id
	t.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal transformation: %w", err)
	}

	fpKey := transformFingerprintKey(t.ImageID, models.ParamsFingerprint(t.Parameters))
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(transformKey(id), data); err != nil {
			return err
		}
		if err := txn.Set(transformImageKey(t.ImageID, id), nil); err != nil {
			return err
		}
		return txn.Set(fpKey, []byte(strconv.FormatInt(id, 10)))
	})
	if err != nil {
		return fmt.Errorf("failed to create transformation: %w", err)
	}

	logger.DebugWithContext(ctx, "Transformation record created",
		zap.Int64("transformation_id", id),
		zap.Int64("image_id", t.ImageID))
	return nil
}

// GetTransformation retrieves a transformation by ID
func (s *BadgerStore) GetTransformation(ctx context.Context, id int64) (*models.Transformation, error) {
	var t models.Transformation
	if err := s.getJSON(transformKey(id), &t); err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, models.NotFoundError{Resource: "transformation", ID: strconv.FormatInt(id, 10)}
		}
		return nil, fmt.Errorf("failed to get transformation: %w", err)
	}
	return &t, nil
}

// FindTransformationByParams resolves the fingerprint index and verifies the
// stored canonical parameters match exactly
func (s *BadgerStore) FindTransformationByParams(ctx context.Context, imageID int64, params string) (*models.Transformation, error) {
	fpKey := transformFingerprintKey(imageID, models.ParamsFingerprint(params))

	var id int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(fpKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id, err = strconv.ParseInt(string(val), 10, 64)
			return err
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, models.NotFoundError{Resource: "transformation", ID: fmt.Sprintf("image %d params", imageID)}
		}
		return nil, fmt.Errorf("failed to resolve fingerprint index: %w", err)
	}

	t, err := s.GetTransformation(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Parameters != params {
		// Stale or colliding index entry; treat as a miss.
		return nil, models.NotFoundError{Resource: "transformation", ID: fmt.Sprintf("image %d params", imageID)}
	}
	return t, nil
}

// ListTransformationsByImage returns all transformations of an image, newest first
func (s *BadgerStore) ListTransformationsByImage(ctx context.Context, imageID int64) ([]*models.Transformation, error) {
	ids, err := s.collectIndexedIDs(fmt.Sprintf("tf:image:%020d:", imageID))
	if err != nil {
		return nil, fmt.Errorf("failed to list transformations: %w", err)
	}
	reverse(ids)

	transformations := make([]*models.Transformation, 0, len(ids))
	for _, id := range ids {
		t, err := s.GetTransformation(ctx, id)
		if err != nil {
			return nil, err
		}
		transformations = append(transformations, t)
	}
	return transformations, nil
}

// DeleteTransformation removes a transformation record and its indexes
func (s *BadgerStore) DeleteTransformation(ctx context.Context, id int64) error {
	t, err := s.GetTransformation(ctx, id)
	if err != nil {
		return err
	}

	fpKey := transformFingerprintKey(t.ImageID, models.ParamsFingerprint(t.Parameters))
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(transformKey(id)); err != nil {
			return err
		}
		if err := txn.Delete(transformImageKey(t.ImageID, id)); err != nil {
			return err
		}

		// Drop the fingerprint entry only if it still points at this record.
		item, err := txn.Get(fpKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		var indexed string
		if err := item.Value(func(val []byte) error {
			indexed = string(val)
			return nil
		}); err != nil {
			return err
		}
		if indexed == strconv.FormatInt(id, 10) {
			return txn.Delete(fpKey)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete transformation: %w", err)
	}

	logger.DebugWithContext(ctx, "Transformation record deleted", zap.Int64("transformation_id", id))
	return nil
}

// Health checks store health with a write/delete round trip
func (s *BadgerStore) Health(ctx context.Context) error {
	key := []byte(fmt.Sprintf("health:check:%d", time.Now().UnixNano()))

	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, []byte("ok")).WithTTL(time.Second)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("record store write test failed: %w", err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error { return txn.Delete(key) }); err != nil {
		logger.WarnWithContext(ctx, "Failed to cleanup health check key", zap.Error(err))
	}
	return nil
}

// Close releases sequences and closes the database
func (s *BadgerStore) Close() error {
	logger.Info("Closing record store")
	for _, seq := range []*badger.Sequence{s.userSeq, s.imageSeq, s.transformSeq} {
		if seq != nil {
			if err := seq.Release(); err != nil {
				logger.Warn("Failed to release ID sequence", zap.Error(err))
			}
		}
	}
	return s.db.Close()
}

// Helper methods

func (s *BadgerStore) getJSON(key []byte, dst interface{}) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dst)
		})
	})
}

// collectIndexedIDs gathers record IDs from an index prefix whose keys end
// with a zero-padded ID segment
func (s *BadgerStore) collectIndexedIDs(prefix string) ([]int64, error) {
	var ids []int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := txn.NewIterator(opts)
		defer iter.Close()

		p := []byte(prefix)
		for iter.Seek(p); iter.ValidForPrefix(p); iter.Next() {
			key := string(iter.Item().Key())
			id, err := strconv.ParseInt(strings.TrimLeft(key[len(prefix):], "0"), 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		return nil
	})
	return ids, err
}

func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	// Sequences start at zero; records are numbered from one.
	return int64(n) + 1, nil
}

func reverse(ids []int64) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func userKey(id int64) []byte {
	return []byte(fmt.Sprintf("user:id:%020d", id))
}

func imageKey(id int64) []byte {
	return []byte(fmt.Sprintf("image:id:%020d", id))
}

func imageOwnerKey(userID, imageID int64) []byte {
	return []byte(fmt.Sprintf("image:owner:%020d:%020d", userID, imageID))
}

func transformKey(id int64) []byte {
	return []byte(fmt.Sprintf("tf:id:%020d", id))
}

func transformImageKey(imageID, id int64) []byte {
	return []byte(fmt.Sprintf("tf:image:%020d:%020d", imageID, id))
}

func transformFingerprintKey(imageID int64, fingerprint string) []byte {
	return []byte(fmt.Sprintf("tf:fp:%020d:%s", imageID, fingerprint))
}

// badgerLogger adapts BadgerDB's logger to zap, suppressing its verbose
// info/debug output
type badgerLogger struct{}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error("BadgerDB error", zap.String("message", fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Debug("BadgerDB warning", zap.String("message", fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{})  {}
func (l *badgerLogger) Debugf(format string, args ...interface{}) {}
