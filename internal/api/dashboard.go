package api

import "net/http"

// dashboardHTML is a single page front end for the classify endpoint.
// Result colours match the desktop application.
const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Spam Detector</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
        .container { max-width: 640px; margin: 0 auto; }
        .section { background: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        textarea { width: 100%; height: 180px; box-sizing: border-box; font-size: 1em; }
        .btn { background: #2196F3; color: white; border: none; padding: 10px 20px; border-radius: 4px; cursor: pointer; margin-top: 10px; }
        .btn:hover { background: #1976D2; }
        #result { font-size: 1.3em; font-weight: bold; color: #808080; margin-top: 15px; }
        .stats { color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="section">
            <h1>Spam Detector</h1>
            <textarea id="text" placeholder="Paste the email text here"></textarea>
            <input id="key" type="password" placeholder="API key (if required)">
            <br>
            <button class="btn" onclick="checkText()">Check Pasted Text</button>
            <div id="result">Prediction will appear here</div>
        </div>
        <div class="section stats" id="stats"></div>
    </div>

    <script>
        function headers() {
            const h = { 'Content-Type': 'application/json' };
            const key = document.getElementById('key').value;
            if (key) { h['X-API-Key'] = key; }
            return h;
        }

        async function checkText() {
            const result = document.getElementById('result');
            try {
                const response = await fetch('/api/v1/classify', {
                    method: 'POST',
                    headers: headers(),
                    body: JSON.stringify({ text: document.getElementById('text').value })
                });
                const body = await response.json();
                if (body.data && body.data.display) {
                    result.textContent = body.data.display.text;
                    result.style.color = body.data.display.color;
                } else {
                    result.textContent = body.error || 'Request failed';
                    result.style.color = '#FF9800';
                }
            } catch (err) {
                result.textContent = 'Error during prediction: ' + err;
                result.style.color = '#FF9800';
            }
            refreshStats();
        }

        async function refreshStats() {
            try {
                const response = await fetch('/api/v1/stats', { headers: headers() });
                const body = await response.json();
                if (!body.success) { return; }
                const s = body.data.statistics;
                document.getElementById('stats').innerHTML =
                    'Checks: ' + s.total_checks + ' | Spam: ' + s.spam_detected +
                    ' | Ham: ' + s.ham_detected + ' | Vocabulary: ' + s.vocabulary_size;
            } catch (err) {}
        }

        refreshStats();
    </script>
</body>
</html>
`

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(dashboardHTML))
}
