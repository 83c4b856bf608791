package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

func NodeID(id string) Field {
	return String("node_id", id)
}

func SourceID(id string) Field {
	return String("source_id", id)
}

func TargetID(id string) Field {
	return String("target_id", id)
}

func SnapshotID(id string) Field {
	return String("snapshot_id", id)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Links(n int) Field {
	return Int("links", n)
}

func Hops(n int) Field {
	return Int("hops", n)
}

func Ticks(n int) Field {
	return Int("ticks", n)
}

func Alpha(a float64) Field {
	return Float64("alpha", a)
}

func Cost(c float64) Field {
	return Float64("cost", c)
}
