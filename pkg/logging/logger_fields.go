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

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

// Optimiser fields

func RunID(id string) Field {
	return String("run_id", id)
}

func Objective(name string) Field {
	return String("objective", name)
}

// DendrogramLevel tags an entry with the dendrogram level it describes
func DendrogramLevel(level int) Field {
	return Int("level", level)
}

func Score(value float64) Field {
	return Float64("score", value)
}

func Moves(n int) Field {
	return Int("moves", n)
}

func Sweeps(n int) Field {
	return Int("sweeps", n)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Communities(n int) Field {
	return Int("communities", n)
}
