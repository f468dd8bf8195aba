package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelHooks records every hook event as OpenTelemetry metrics. It implements
// all hook interfaces; register it for the categories you want measured.
type OTelHooks struct {
	renders       metric.Int64Counter
	renderTime    metric.Float64Histogram
	renderBytes   metric.Int64Histogram
	saves         metric.Int64Counter
	saveTime      metric.Float64Histogram
	cacheLookups  metric.Int64Counter
	cacheWrites   metric.Int64Counter
	httpRequests  metric.Int64Counter
	httpDurations metric.Float64Histogram
}

var (
	_ RenderHooks  = (*OTelHooks)(nil)
	_ StorageHooks = (*OTelHooks)(nil)
	_ CacheHooks   = (*OTelHooks)(nil)
	_ HTTPHooks    = (*OTelHooks)(nil)
)

// NewOTelHooks creates the instruments on meter. Instruments that fail to
// register are replaced by no-ops so that metrics never break rendering.
func NewOTelHooks(meter metric.Meter) *OTelHooks {
	h := &OTelHooks{}
	h.renders = counter(meter, "nwcharts.render.count", "Charts rendered", "{chart}")
	h.renderTime = histogram(meter, "nwcharts.render.duration", "Time to build and encode a chart", "s")
	h.renderBytes, _ = meter.Int64Histogram("nwcharts.render.size",
		metric.WithDescription("Size of encoded charts"), metric.WithUnit("By"))
	h.saves = counter(meter, "nwcharts.storage.saves", "Objects written to storage", "{object}")
	h.saveTime = histogram(meter, "nwcharts.storage.duration", "Time to write an object", "s")
	h.cacheLookups = counter(meter, "nwcharts.cache.lookups", "Cache lookups", "{lookup}")
	h.cacheWrites = counter(meter, "nwcharts.cache.writes", "Cache writes", "{write}")
	h.httpRequests = counter(meter, "nwcharts.http.requests", "Outgoing HTTP requests", "{request}")
	h.httpDurations = histogram(meter, "nwcharts.http.duration", "Outgoing HTTP request duration", "s")
	return h
}

func counter(m metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		return nil
	}
	return c
}

func histogram(m metric.Meter, name, desc, unit string) metric.Float64Histogram {
	h, err := m.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		return nil
	}
	return h
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "error")
	}
	return attribute.String("status", "ok")
}

func (h *OTelHooks) OnRenderStart(context.Context, string, string) {}

func (h *OTelHooks) OnRenderComplete(ctx context.Context, chartType, format string, size int, d time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("chart.type", chartType),
		attribute.String("format", format),
		status(err),
	)
	if h.renders != nil {
		h.renders.Add(ctx, 1, attrs)
	}
	if h.renderTime != nil {
		h.renderTime.Record(ctx, d.Seconds(), attrs)
	}
	if h.renderBytes != nil && err == nil {
		h.renderBytes.Record(ctx, int64(size), attrs)
	}
}

func (h *OTelHooks) OnSave(ctx context.Context, backend, format string, size int, d time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("storage.backend", backend),
		attribute.String("format", format),
		status(err),
	)
	if h.saves != nil {
		h.saves.Add(ctx, 1, attrs)
	}
	if h.saveTime != nil {
		h.saveTime.Record(ctx, d.Seconds(), attrs)
	}
}

func (h *OTelHooks) OnCacheHit(ctx context.Context, keyType string) {
	if h.cacheLookups != nil {
		h.cacheLookups.Add(ctx, 1, metric.WithAttributes(
			attribute.String("cache.key_type", keyType), attribute.Bool("cache.hit", true)))
	}
}

func (h *OTelHooks) OnCacheMiss(ctx context.Context, keyType string) {
	if h.cacheLookups != nil {
		h.cacheLookups.Add(ctx, 1, metric.WithAttributes(
			attribute.String("cache.key_type", keyType), attribute.Bool("cache.hit", false)))
	}
}

func (h *OTelHooks) OnCacheSet(ctx context.Context, keyType string, _ int) {
	if h.cacheWrites != nil {
		h.cacheWrites.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.key_type", keyType)))
	}
}

func (h *OTelHooks) OnRequest(context.Context, string, string, string) {}

func (h *OTelHooks) OnResponse(ctx context.Context, method, host, _ string, code int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("server.address", host),
		attribute.Int("http.status_code", code),
	)
	if h.httpRequests != nil {
		h.httpRequests.Add(ctx, 1, attrs)
	}
	if h.httpDurations != nil {
		h.httpDurations.Record(ctx, d.Seconds(), attrs)
	}
}

func (h *OTelHooks) OnError(ctx context.Context, method, host, _ string, err error) {
	if h.httpRequests != nil {
		h.httpRequests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("server.address", host),
			status(err),
		))
	}
}
