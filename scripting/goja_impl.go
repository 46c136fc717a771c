package scripting

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
)

// MaxTimers bounds the callbacks RunTimers executes, so scripts that keep
// rescheduling themselves terminate.
const MaxTimers = 1000

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	return val.Export(), nil
}

// windowPrelude installs the stub window: event listeners, timers, the
// font loading API and print/close hooks routed to the host.
const windowPrelude = `
var window = this;
(function (g) {
  var listeners = {};
  var timers = [];
  var seq = 0;
  g.addEventListener = function (type, fn) {
    (listeners[type] = listeners[type] || []).push(fn);
  };
  g.removeEventListener = function (type, fn) {
    var fns = listeners[type] || [];
    listeners[type] = fns.filter(function (f) { return f !== fn; });
  };
  g.__dispatch = function (type) {
    var fns = (listeners[type] || []).slice();
    if (typeof g["on" + type] === "function") fns.push(g["on" + type]);
    for (var i = 0; i < fns.length; i++) fns[i].call(g, { type: type });
    return fns.length;
  };
  g.setTimeout = function (fn, ms) {
    seq++;
    timers.push({ fn: fn, at: ms || 0, id: seq });
    return seq;
  };
  g.clearTimeout = function (id) {
    timers = timers.filter(function (t) { return t.id !== id; });
  };
  g.__runTimers = function (limit) {
    var n = 0;
    while (timers.length > 0 && n < limit) {
      timers.sort(function (a, b) { return a.at - b.at || a.id - b.id; });
      var t = timers.shift();
      n++;
      t.fn();
    }
    return n;
  };
  g.print = function () {
    __host.print();
    g.__dispatch("afterprint");
  };
  g.close = function () { __host.close(); };
  g.document = {
    readyState: "complete",
    fonts: { ready: Promise.resolve(), status: "loaded" },
    close: function () {}
  };
  g.console = {
    log: function () { __host.log(Array.prototype.join.call(arguments, " ")); }
  };
})(this);
`

func (e *GojaEngine) RegisterDOM(dom DOM) error {
	host := e.vm.NewObject()
	err := host.Set("print", func(call goja.FunctionCall) goja.Value {
		dom.Print()
		return goja.Undefined()
	})
	if err != nil {
		return err
	}
	if err := host.Set("close", func(call goja.FunctionCall) goja.Value {
		dom.Close()
		return goja.Undefined()
	}); err != nil {
		return err
	}
	if err := host.Set("log", func(call goja.FunctionCall) goja.Value {
		msg := ""
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		dom.Log(msg)
		return goja.Undefined()
	}); err != nil {
		return err
	}
	if err := e.vm.Set("__host", host); err != nil {
		return err
	}
	if _, err := e.vm.RunString(windowPrelude); err != nil {
		return fmt.Errorf("scripting: install window: %w", err)
	}
	return nil
}

func (e *GojaEngine) Dispatch(ctx context.Context, event string) (int, error) {
	v, err := e.Execute(ctx, fmt.Sprintf("__dispatch(%q)", event))
	if err != nil {
		return 0, err
	}
	return toInt(v), nil
}

func (e *GojaEngine) RunTimers(ctx context.Context) (int, error) {
	v, err := e.Execute(ctx, fmt.Sprintf("__runTimers(%d)", MaxTimers))
	if err != nil {
		return 0, err
	}
	return toInt(v), nil
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
