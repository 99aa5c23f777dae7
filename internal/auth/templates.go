package auth

// tixteLogoSVG is the mark used in both templates.
const tixteLogoSVG = `<rect width="512" height="512" rx="112" fill="#4CA3FC"/><path d="M146 178h220v44h-88v156h-44V222h-88v-44z" fill="#FFFFFF"/>`

// setupTemplate is the credential entry page served at /.
const setupTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Tixte CLI Setup</title>
    <style>
        :root {
            --tixte-blue: #4CA3FC;
            --bg: #0f1117;
            --panel: #181b23;
            --border: #272b36;
            --text: #e8eaf0;
            --muted: #9aa1b0;
            --error: #f06767;
            --ok: #4fc789;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            min-height: 100vh;
            display: flex;
            align-items: center;
            justify-content: center;
            padding: 24px;
        }

        .card {
            width: 100%;
            max-width: 440px;
            background: var(--panel);
            border: 1px solid var(--border);
            border-radius: 16px;
            padding: 40px;
        }

        .logo {
            width: 56px;
            height: 56px;
            margin-bottom: 20px;
        }

        h1 {
            font-size: 22px;
            font-weight: 600;
            margin-bottom: 6px;
        }

        .subtitle {
            color: var(--muted);
            font-size: 14px;
            margin-bottom: 28px;
        }

        .form-group {
            margin-bottom: 20px;
        }

        label {
            display: block;
            font-size: 13px;
            font-weight: 500;
            margin-bottom: 6px;
        }

        input {
            width: 100%;
            padding: 10px 12px;
            background: var(--bg);
            border: 1px solid var(--border);
            border-radius: 8px;
            color: var(--text);
            font-size: 14px;
            outline: none;
        }

        input:focus {
            border-color: var(--tixte-blue);
        }

        input.invalid {
            border-color: var(--error);
        }

        .input-hint {
            color: var(--muted);
            font-size: 12px;
            margin-top: 5px;
        }

        .input-hint a {
            color: var(--tixte-blue);
            text-decoration: none;
        }

        .actions {
            display: flex;
            gap: 10px;
            margin-top: 26px;
        }

        button {
            flex: 1;
            padding: 11px 0;
            border: none;
            border-radius: 8px;
            font-size: 14px;
            font-weight: 600;
            cursor: pointer;
        }

        button:disabled {
            opacity: 0.5;
            cursor: not-allowed;
        }

        #testBtn {
            background: transparent;
            border: 1px solid var(--border);
            color: var(--text);
        }

        #testBtn:hover:not(:disabled) {
            border-color: var(--tixte-blue);
        }

        #saveBtn {
            background: var(--tixte-blue);
            color: #fff;
        }

        #saveBtn:hover:not(:disabled) {
            filter: brightness(1.1);
        }

        .status {
            margin-top: 18px;
            padding: 11px 13px;
            border-radius: 8px;
            font-size: 13px;
            display: none;
        }

        .status.error {
            display: block;
            background: rgba(240, 103, 103, 0.1);
            color: var(--error);
        }

        .status.success {
            display: block;
            background: rgba(79, 199, 137, 0.1);
            color: var(--ok);
        }

        .help {
            margin-top: 26px;
            padding-top: 22px;
            border-top: 1px solid var(--border);
            color: var(--muted);
            font-size: 13px;
        }

        .help ol {
            margin: 10px 0 0 18px;
        }

        .help li {
            margin-bottom: 6px;
        }

        .help a {
            color: var(--tixte-blue);
            text-decoration: none;
        }
    </style>
</head>
<body>
    <div class="card">
        <svg class="logo" viewBox="0 0 512 512" xmlns="http://www.w3.org/2000/svg">
            ` + tixteLogoSVG + `
        </svg>
        <h1>Connect to Tixte</h1>
        <p class="subtitle">Configure the CLI with your upload key</p>

        <form id="setupForm" onsubmit="return false;">
            <div class="form-group">
                <label for="apiKey">API Key</label>
                <input
                    type="password"
                    id="apiKey"
                    name="apiKey"
                    autocomplete="off"
                    required
                >
                <div class="input-hint">Found in the dashboard under Account &rarr; API keys</div>
            </div>

            <div class="form-group">
                <label for="domain">Upload Domain</label>
                <input
                    type="text"
                    id="domain"
                    name="domain"
                    placeholder="files.example.com"
                >
                <div class="input-hint">Optional. Uploads go to this domain by default.</div>
            </div>

            <div class="actions">
                <button type="button" id="testBtn">Test Connection</button>
                <button type="button" id="saveBtn">Save</button>
            </div>

            <div class="status" id="status"></div>
        </form>

        <div class="help">
            Where to find your key:
            <ol>
                <li>Log in to the <a href="https://tixte.com/dashboard" target="_blank">Tixte dashboard</a></li>
                <li>Open your account settings</li>
                <li>Copy the API key from the developer section</li>
            </ol>
        </div>
    </div>

    <script>
        const csrfToken = '{{.CSRFToken}}';
        const statusEl = document.getElementById('status');
        const testBtn = document.getElementById('testBtn');
        const saveBtn = document.getElementById('saveBtn');
        const apiKeyInput = document.getElementById('apiKey');
        const domainInput = document.getElementById('domain');

        function showStatus(message, kind) {
            statusEl.textContent = message;
            statusEl.className = 'status ' + kind;
        }

        function clearStatus() {
            statusEl.className = 'status';
        }

        function payload() {
            return {
                api_key: apiKeyInput.value.trim(),
                domain: domainInput.value.trim()
            };
        }

        function validateForm() {
            clearStatus();
            apiKeyInput.classList.remove('invalid');
            if (!apiKeyInput.value.trim()) {
                apiKeyInput.classList.add('invalid');
                showStatus('API key is required', 'error');
                return false;
            }
            return true;
        }

        async function post(path) {
            const resp = await fetch(path, {
                method: 'POST',
                headers: {
                    'Content-Type': 'application/json',
                    'X-CSRF-Token': csrfToken
                },
                body: JSON.stringify(payload())
            });
            return resp.json();
        }

        testBtn.addEventListener('click', async () => {
            if (!validateForm()) return;
            testBtn.disabled = true;
            try {
                const result = await post('/validate');
                if (result.success) {
                    showStatus('Connected as ' + result.user_name, 'success');
                } else {
                    showStatus(result.error, 'error');
                }
            } catch (err) {
                showStatus('Request failed: ' + err.message, 'error');
            } finally {
                testBtn.disabled = false;
            }
        });

        saveBtn.addEventListener('click', async () => {
            if (!validateForm()) return;
            saveBtn.disabled = true;
            try {
                const result = await post('/submit');
                if (result.success) {
                    window.location.href = '/success?name=' + encodeURIComponent(result.user_name);
                } else {
                    showStatus(result.error, 'error');
                    saveBtn.disabled = false;
                }
            } catch (err) {
                showStatus('Request failed: ' + err.message, 'error');
                saveBtn.disabled = false;
            }
        });
    </script>
</body>
</html>`

// successTemplate is served at /success after credentials are saved.
const successTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Setup Complete - Tixte CLI</title>
    <style>
        :root {
            --tixte-blue: #4CA3FC;
            --bg: #0f1117;
            --panel: #181b23;
            --border: #272b36;
            --text: #e8eaf0;
            --muted: #9aa1b0;
            --ok: #4fc789;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            min-height: 100vh;
            display: flex;
            align-items: center;
            justify-content: center;
            padding: 24px;
        }

        .card {
            width: 100%;
            max-width: 420px;
            background: var(--panel);
            border: 1px solid var(--border);
            border-radius: 16px;
            padding: 48px 40px;
            text-align: center;
        }

        .check {
            width: 64px;
            height: 64px;
            margin: 0 auto 24px;
            border-radius: 50%;
            background: rgba(79, 199, 137, 0.12);
            display: flex;
            align-items: center;
            justify-content: center;
        }

        .check svg {
            width: 30px;
            height: 30px;
            stroke: var(--ok);
        }

        h1 {
            font-size: 22px;
            font-weight: 600;
            margin-bottom: 8px;
        }

        .who {
            color: var(--muted);
            font-size: 14px;
            margin-bottom: 26px;
        }

        .who strong {
            color: var(--text);
        }

        pre {
            background: var(--bg);
            border: 1px solid var(--border);
            border-radius: 8px;
            padding: 14px;
            text-align: left;
            font-size: 13px;
            color: var(--tixte-blue);
            overflow-x: auto;
        }

        .hint {
            margin-top: 22px;
            color: var(--muted);
            font-size: 13px;
        }
    </style>
</head>
<body>
    <div class="card">
        <div class="check">
            <svg viewBox="0 0 24 24" fill="none" stroke-width="3" stroke-linecap="round" stroke-linejoin="round">
                <polyline points="20 6 9 17 4 12"></polyline>
            </svg>
        </div>
        <h1>You're all set</h1>
        <p class="who">Authenticated as <strong>{{.UserName}}</strong></p>
        <pre>tixte upload photo.png
tixte uploads list</pre>
        <p class="hint">You can close this tab and return to the terminal.</p>
    </div>

    <script>
        fetch('/complete', { method: 'POST' }).catch(() => {});
    </script>
</body>
</html>`
