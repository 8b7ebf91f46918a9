package job

import "time"

type enqueueConfig struct {
	scheduledAt *time.Time
	taskID      string
	queue       string
	uniqueKey   string
	tags        []string
	maxAttempts int
	uniqueFor   time.Duration
	priority    int
}

// EnqueueOption configures a single Enqueue call.
type EnqueueOption func(*enqueueConfig)

// WithTaskID sets the task identifier instead of generating one.
func WithTaskID(id string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.taskID = id
	}
}

// InQueue routes the task to a named queue.
func InQueue(name string) EnqueueOption {
	return func(c *enqueueConfig) {
		if name != "" {
			c.queue = name
		}
	}
}

// ScheduledAt delays the task until t. Ignored in eager mode.
func ScheduledAt(t time.Time) EnqueueOption {
	return func(c *enqueueConfig) {
		c.scheduledAt = &t
	}
}

// ScheduledIn delays the task by d. Ignored in eager mode.
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		t := time.Now().Add(d)
		c.scheduledAt = &t
	}
}

// MaxAttempts limits retries of a failing task.
func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// UniqueFor skips the insert when a task with the same name and unique key
// was enqueued within d. The returned handle then points at the existing task.
//
//	c.Enqueue(ctx, "myapp.tasks.say_hello", args,
//		job.UniqueFor(time.Minute),
//		job.UniqueKey("Beomjune"))
func UniqueFor(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueFor = d
	}
}

func UniqueKey(key string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueKey = key
	}
}

// Priority orders work within a queue, 1 runs first. River accepts 1 to 4.
func Priority(p int) EnqueueOption {
	return func(c *enqueueConfig) {
		c.priority = p
	}
}

func Tags(tags ...string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.tags = append(c.tags, tags...)
	}
}
