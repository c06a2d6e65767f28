package renderer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// TemplateRenderer implements the Renderer interface using Go templates
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer creates a new template-based renderer
func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl := template.New("editor").Funcs(template.FuncMap{
		"percent": func(ratio float64) string {
			return fmt.Sprintf("%.4f%%", ratio*100)
		},
	})

	if _, err := tmpl.Parse(defaultEditorTemplate); err != nil {
		return nil, fmt.Errorf("parsing editor template: %w", err)
	}

	return &TemplateRenderer{
		templates: tmpl,
	}, nil
}

// RenderEditor renders the editor shell: video element, overlay, editing panel
// and the websocket bridge script
func (r *TemplateRenderer) RenderEditor(ctx context.Context, page entities.EditorPage) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if page.Title == "" {
		page.Title = "vidspot"
	}
	if page.WebSocketPath == "" {
		page.WebSocketPath = "/ws"
	}
	if page.AspectRatio <= 0 {
		page.AspectRatio = 9.0 / 16.0
	}
	if len(page.Devices) == 0 {
		page.Devices = entities.DeviceOptions(entities.DeviceDesktop)
	}

	var buf bytes.Buffer
	if err := r.templates.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("executing editor template: %w", err)
	}

	return buf.Bytes(), nil
}

// Ensure TemplateRenderer implements ports.Renderer
var _ ports.Renderer = (*TemplateRenderer)(nil)

const defaultEditorTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}{{if .VideoName}} - {{.VideoName}}{{end}}</title>
    <style>
        body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #111; color: #eee; }
        header { display: flex; gap: 1em; align-items: center; padding: 0.5em 1em; background: #1b1b1b; }
        main { display: flex; gap: 1em; padding: 1em; }
        .stage { flex: 1; display: flex; flex-direction: column; align-items: center; }
        .player { position: relative; width: 100%; background: #000; }
        .player video { position: absolute; inset: 0; width: 100%; height: 100%; }
        .overlay { position: absolute; inset: 0; cursor: crosshair; }
        .hotspot { position: absolute; box-sizing: border-box; cursor: move; display: flex; flex-direction: column; align-items: center; justify-content: center; gap: 4px; }
        .hotspot.selected { outline: 2px solid #4da3ff; }
        .hotspot .handle { position: absolute; right: -5px; bottom: -5px; width: 10px; height: 10px; background: #4da3ff; cursor: nwse-resize; }
        .hotspot button { border: none; border-radius: 4px; padding: 2px 8px; cursor: pointer; }
        .banner { position: absolute; left: 50%; top: 1em; transform: translateX(-50%); background: rgba(0, 0, 0, 0.8); padding: 0.5em 1em; border-radius: 4px; display: none; }
        .timeline { position: relative; width: 100%; height: 8px; margin-top: 0.5em; background: #333; }
        .timeline div { position: absolute; top: 0; height: 100%; background: #ff5252; opacity: 0.7; }
        aside { width: 320px; background: #1b1b1b; padding: 1em; border-radius: 4px; }
        aside label { display: block; margin: 0.5em 0 0.2em; font-size: 0.85em; color: #aaa; }
        aside input { width: 100%; box-sizing: border-box; }
        .closed { padding: 2em; text-align: center; }
    </style>
</head>
<body>
    <header>
        <strong>{{.Title}}</strong>
        {{if .VideoName}}<span>{{.VideoName}}</span>{{end}}
        <select id="device">
            {{range .Devices}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
        </select>
        <span id="clock">0:00</span>
    </header>
    <main>
        <section class="stage">
            <div class="player" id="player" style="padding-top: {{percent .AspectRatio}}">
                <video id="video" src="{{.MediaURL}}" controls preload="metadata"></video>
                <div class="overlay" id="overlay"></div>
                <div class="banner" id="banner"></div>
            </div>
            <div class="timeline" id="timeline"></div>
        </section>
        <aside id="panel">
            <p>Click the video to add a hotspot.</p>
        </aside>
    </main>

    <script>
    (function () {
        const wsPath = {{.WebSocketPath}};
        const video = document.getElementById('video');
        const overlay = document.getElementById('overlay');
        const player = document.getElementById('player');
        const banner = document.getElementById('banner');
        const timeline = document.getElementById('timeline');
        const panel = document.getElementById('panel');
        const clock = document.getElementById('clock');
        const device = document.getElementById('device');

        const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
        const ws = new WebSocket(proto + '//' + location.host + wsPath);
        let gesture = null;
        let lastState = null;

        function send(type, data) {
            if (ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({ type: type, data: data || {} }));
            }
        }

        function api(method, path, body) {
            return fetch(path, {
                method: method,
                headers: { 'Content-Type': 'application/json' },
                body: body === undefined ? undefined : JSON.stringify(body)
            });
        }

        function timecode(seconds) {
            const m = Math.floor(seconds / 60);
            const s = (seconds - m * 60).toFixed(2).padStart(5, '0');
            return m + ':' + s;
        }

        ws.onmessage = function (msg) {
            const event = JSON.parse(msg.data);
            switch (event.type) {
            case 'state':
                render(event.data);
                break;
            case 'banner':
                showBanner(event.data);
                break;
            case 'playback_command':
                if (event.data === 'play') { video.play(); } else { video.pause(); }
                break;
            case 'navigate':
                window.open(event.data.url, '_blank', 'noopener');
                break;
            case 'session_closed':
                document.body.innerHTML = '<div class="closed">Session closed.</div>';
                break;
            }
        };

        ws.onopen = function () {
            reportSize();
            if (!isNaN(video.duration)) {
                send('durationchange', { duration: video.duration });
            }
        };

        video.addEventListener('timeupdate', function () { send('timeupdate', { currentTime: video.currentTime }); });
        video.addEventListener('durationchange', function () { send('durationchange', { duration: video.duration }); });
        video.addEventListener('play', function () { send('play'); });
        video.addEventListener('pause', function () { send('pause'); });

        function reportSize() {
            send('resize_container', { width: overlay.clientWidth, height: overlay.clientHeight });
        }
        new ResizeObserver(reportSize).observe(player);

        overlay.addEventListener('click', function (e) {
            if (e.target !== overlay) { return; }
            send('overlay_click', { x: e.offsetX, y: e.offsetY });
        });

        device.addEventListener('change', function () { api('PUT', '/api/device', { device: device.value }); });

        document.addEventListener('mousemove', function (e) {
            if (!gesture) { return; }
            const rect = overlay.getBoundingClientRect();
            if (gesture.kind === 'drag') {
                send('drag', { id: gesture.id, x: e.clientX - rect.left - gesture.offsetX, y: e.clientY - rect.top - gesture.offsetY });
            } else {
                const width = (e.clientX - gesture.left) / rect.width * 100;
                const height = (e.clientY - gesture.top) / rect.height * 100;
                send('resize', { id: gesture.id, width: width, height: height });
            }
        });

        document.addEventListener('mouseup', function () {
            if (gesture && gesture.kind === 'resize') { send('resize_end', { id: gesture.id }); }
            gesture = null;
        });

        function showBanner(state) {
            banner.style.display = state.visible ? 'block' : 'none';
            banner.innerHTML = state.message || '';
        }

        function render(state) {
            lastState = state;
            clock.textContent = timecode(state.playback.currentTime);
            banner.style.fontSize = state.bannerFontSize + 'px';
            showBanner(state.banner);

            overlay.innerHTML = '';
            state.active.forEach(function (view) {
                const h = view.hotspot;
                const el = document.createElement('div');
                el.className = 'hotspot' + (view.selected ? ' selected' : '');
                el.style.left = view.position.x + 'px';
                el.style.top = view.position.y + 'px';
                el.style.width = view.size.width + 'px';
                el.style.height = view.size.height + 'px';
                el.style.borderRadius = view.borderRound ? '50%' : '0';
                el.style.background = h.color;
                el.style.opacity = h.opacity;

                el.addEventListener('mousedown', function (e) {
                    if (e.target !== el) { return; }
                    api('POST', '/api/selection', { id: h.id });
                    gesture = { kind: 'drag', id: h.id, offsetX: e.offsetX, offsetY: e.offsetY };
                });

                view.buttons.forEach(function (b) {
                    const btn = document.createElement('button');
                    btn.innerHTML = b.label;
                    btn.style.background = b.backgroundColor;
                    btn.style.color = b.textColor;
                    btn.style.fontSize = b.fontSizePx + 'px';
                    btn.addEventListener('click', function (e) {
                        e.stopPropagation();
                        send('cta_click', { hotspotId: h.id, ctaId: b.id });
                    });
                    el.appendChild(btn);
                });

                const handle = document.createElement('div');
                handle.className = 'handle';
                handle.addEventListener('mousedown', function (e) {
                    e.stopPropagation();
                    const rect = el.getBoundingClientRect();
                    gesture = { kind: 'resize', id: h.id, left: rect.left, top: rect.top };
                    send('resize_start', { id: h.id });
                });
                el.appendChild(handle);
                overlay.appendChild(el);
            });

            timeline.innerHTML = '';
            (state.timeline || []).forEach(function (m) {
                const marker = document.createElement('div');
                marker.style.left = m.left + '%';
                marker.style.width = m.width + '%';
                timeline.appendChild(marker);
            });

            renderPanel(state.selected);
        }

        function renderPanel(h) {
            if (!h) {
                panel.innerHTML = '<p>Click the video to add a hotspot.</p>';
                return;
            }
            if (document.activeElement && panel.contains(document.activeElement)) { return; }

            panel.innerHTML = '';
            function field(label, value, onChange) {
                const l = document.createElement('label');
                l.textContent = label;
                const input = document.createElement('input');
                input.value = value;
                input.addEventListener('change', function () { onChange(input.value); });
                panel.appendChild(l);
                panel.appendChild(input);
            }

            field('Start', timecode(h.startTime), function (v) { api('PUT', '/api/hotspots/' + h.id + '/time/start', { value: v }); });
            field('End', timecode(h.endTime), function (v) { api('PUT', '/api/hotspots/' + h.id + '/time/end', { value: v }); });
            field('Color', h.color, function (v) { api('PATCH', '/api/hotspots/' + h.id, { color: v }); });

            (h.ctas || []).forEach(function (cta) {
                field('CTA (' + cta.type + ')', cta.content, function (v) {
                    api('PATCH', '/api/hotspots/' + h.id + '/ctas/' + cta.id, { content: v, buttonText: v });
                });
            });

            const add = document.createElement('button');
            add.textContent = 'Add CTA';
            add.addEventListener('click', function () { api('POST', '/api/hotspots/' + h.id + '/ctas', {}); });
            panel.appendChild(add);

            const del = document.createElement('button');
            del.textContent = 'Delete hotspot';
            del.addEventListener('click', function () { api('DELETE', '/api/hotspots/' + h.id); });
            panel.appendChild(del);
        }
    })();
    </script>
</body>
</html>`
