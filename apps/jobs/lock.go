package jobs

import (
	"fmt"
	"os"
	"time"

	"github.com/getevo/evo/v2/lib/log"
	"github.com/nats-io/nats.go"
)

const (
	lockBucket = "job_locks"
	lockTTL    = 30 * time.Minute
)

// LockManager serializes job runs across instances through a NATS JetStream
// KV bucket. A lock is one key per job holding the owner's instance id; the
// bucket TTL reclaims locks left behind by a crashed instance.
type LockManager struct {
	kv         nats.KeyValue
	instanceID string
}

// NewLockManager creates or binds the lock bucket. The instance id is
// hostname plus pid so lock ownership is attributable in the KV store.
func NewLockManager(js nats.JetStreamContext) (*LockManager, error) {
	if js == nil {
		return nil, fmt.Errorf("jetstream context is nil")
	}

	hostname, _ := os.Hostname()
	instanceID := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	kv, err := js.CreateKeyValue(&nats.KeyValueConfig{
		Bucket:      lockBucket,
		Description: "Job run locks, one key per job",
		TTL:         lockTTL,
	})
	if err != nil {
		// Another instance created the bucket first.
		kv, err = js.KeyValue(lockBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to create or bind %s bucket: %w", lockBucket, err)
		}
	}

	log.Info("[jobs] lock manager ready, instance %s", instanceID)
	return &LockManager{kv: kv, instanceID: instanceID}, nil
}

// TryLock claims the job's lock key. KV Create is atomic: it fails when the
// key exists, except when this instance already holds it, in which case the
// entry is refreshed to extend the TTL.
func (lm *LockManager) TryLock(jobName string) bool {
	if _, err := lm.kv.Create(jobName, []byte(lm.instanceID)); err != nil {
		entry, getErr := lm.kv.Get(jobName)
		if getErr == nil && string(entry.Value()) == lm.instanceID {
			_, putErr := lm.kv.Put(jobName, []byte(lm.instanceID))
			return putErr == nil
		}
		return false
	}
	log.Debug("[jobs] %s locked by %s", jobName, lm.instanceID)
	return true
}

// Unlock deletes the lock key if this instance owns it. A lock held by
// someone else is left alone.
func (lm *LockManager) Unlock(jobName string) {
	entry, err := lm.kv.Get(jobName)
	if err != nil {
		return
	}
	if string(entry.Value()) != lm.instanceID {
		return
	}
	if err := lm.kv.Delete(jobName); err != nil {
		log.Warning("[jobs] failed to release lock on %s: %v", jobName, err)
	}
}

// GetInstanceID returns this instance's lock owner id.
func (lm *LockManager) GetInstanceID() string {
	return lm.instanceID
}
