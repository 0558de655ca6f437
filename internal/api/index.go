package api

const indexHTML = `<!doctype html>
<html lang="en" data-theme="dark">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Cryptonest Ticker</title>
  <style>
    body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; background: #0d1117; color: #c9d1d9; }
    header { display: flex; align-items: center; gap: 16px; padding: 12px 24px; background: #161b22; border-bottom: 1px solid #30363d; }
    header h1 { font-size: 16px; margin: 0; color: #e6edf3; }
    #status { font-size: 12px; color: #8b949e; }
    #status.stale { color: #d29922; }
    main { display: grid; grid-template-columns: 1fr 280px; gap: 24px; padding: 24px; }
    table { width: 100%; border-collapse: collapse; font-size: 13px; }
    td, th { padding: 6px 10px; border-bottom: 1px solid #21262d; text-align: left; }
    .coin-icon { width: 20px; height: 20px; vertical-align: middle; }
    .positive { color: #3fb950; }
    .negative { color: #f85149; }
    .trending-item { display: flex; justify-content: space-between; padding: 6px 0; border-bottom: 1px solid #21262d; }
  </style>
</head>
<body>
  <header>
    <h1>Cryptonest</h1>
    <select id="currency">
      <option>USD</option><option>EUR</option><option>GBP</option><option>INR</option>
      <option>JPY</option><option>CAD</option><option>AUD</option>
    </select>
    <span id="status">connecting…</span>
    <a href="/docs" style="margin-left:auto;color:#58a6ff">API docs</a>
  </header>
  <main>
    <table>
      <thead><tr><th>#</th><th>Coin</th><th>Price</th><th>24h</th><th>Market Cap</th></tr></thead>
      <tbody id="cryptoTableBody"></tbody>
    </table>
    <section>
      <h3>Trending</h3>
      <div id="trendingList"></div>
    </section>
  </main>
  <script>
    const rows = document.getElementById("cryptoTableBody");
    const trending = document.getElementById("trendingList");
    const status = document.getElementById("status");
    const select = document.getElementById("currency");
    const es = new EventSource("/events");
    es.addEventListener("rows", e => { rows.innerHTML = e.data; });
    es.addEventListener("trending", e => { trending.innerHTML = e.data; });
    es.addEventListener("status", e => {
      const s = JSON.parse(e.data);
      status.textContent = s.has_data ? (s.count + " coins · " + (s.displayed_currency || "")) : "no data yet";
      status.className = s.stale ? "stale" : "";
      if (s.stale && s.last_error) status.textContent += " · stale: " + s.last_error;
    });
    fetch("/api/v1/ticker").then(r => r.json()).then(v => { select.value = v.state.currency; });
    select.addEventListener("change", () => {
      fetch("/api/v1/ticker/currency", {
        method: "PUT",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify({currency: select.value}),
      });
    });
  </script>
</body>
</html>`
