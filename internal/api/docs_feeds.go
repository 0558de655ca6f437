package api

const feedsDocsHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Live Feeds - Cryptonest</title>
  <style>
    body { margin: 0 auto; max-width: 880px; padding: 32px 16px 64px; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; font-size: 14px; line-height: 1.65; background: #0d1117; color: #c9d1d9; }
    a { color: #58a6ff; text-decoration: none; }
    h1, h2 { color: #e6edf3; }
    h2 { border-bottom: 1px solid #21262d; padding-bottom: 8px; margin-top: 40px; }
    code, pre { font-family: "SFMono-Regular", Consolas, "Liberation Mono", Menlo, monospace; font-size: 12px; background: #161b22; border: 1px solid #30363d; border-radius: 3px; color: #e6edf3; }
    code { padding: 1px 5px; }
    pre { padding: 12px 16px; overflow-x: auto; }
    table { width: 100%; border-collapse: collapse; font-size: 13px; }
    th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #21262d; }
    th { background: #161b22; color: #8b949e; }
  </style>
</head>
<body>
  <p><a href="/docs">← REST API docs</a></p>
  <h1>Live Feeds</h1>
  <p>The ticker pushes whole-container replacements. Each event carries one feed name and the full payload for that container. New subscribers first receive the latest payload of every feed, then live updates.</p>

  <h2>Feeds</h2>
  <table>
    <tr><th>Feed</th><th>Payload</th></tr>
    <tr><td><code>rows</code></td><td>HTML table rows for the top coins. Empty string when the listing was empty.</td></tr>
    <tr><td><code>trending</code></td><td>HTML for the trending list. Published once at start.</td></tr>
    <tr><td><code>status</code></td><td>JSON ticker status: <code>has_data</code>, <code>stale</code>, <code>count</code>, <code>last_error</code>, sequence numbers.</td></tr>
  </table>

  <h2>Server-Sent Events</h2>
  <pre>GET /events?feeds=rows,status</pre>
  <p>The event name is the feed. Omit <code>feeds</code> to receive everything.</p>
  <pre>const es = new EventSource("/events");
es.addEventListener("rows", e => { tbody.innerHTML = e.data; });</pre>

  <h2>WebSocket</h2>
  <pre>GET /ws?feeds=rows</pre>
  <p>Each text frame is a JSON object:</p>
  <pre>{"feed": "rows", "payload": "&lt;tr&gt;…&lt;/tr&gt;"}</pre>
  <p>Client frames are ignored. Closing the socket unsubscribes.</p>
</body>
</html>`
