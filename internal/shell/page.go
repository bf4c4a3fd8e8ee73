package shell

// waitingPage is shown while the child server starts. Its script polls
// /api/status once a second and redirects to the server URL on Ready, or
// swaps in the failure text on Failed.
const waitingPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Open WebUI</title>
<style>
    body {
        display: flex;
        flex-direction: column;
        justify-content: center;
        align-items: center;
        height: 100vh;
        margin: 0;
        font-family: Arial, sans-serif;
        background-color: #f8f9fa;
    }
    .spinner {
        width: 50px;
        height: 50px;
        border: 5px solid #f3f3f3;
        border-top: 5px solid #007bff;
        border-radius: 50%;
        animation: spin 1s linear infinite;
    }
    @keyframes spin {
        0% { transform: rotate(0deg); }
        100% { transform: rotate(360deg); }
    }
    h1 {
        margin-top: 20px;
        font-size: 18px;
        color: #555;
    }
    .error { color: #b00020; max-width: 40em; text-align: center; }
</style>
</head>
<body>
<div class="spinner" id="spinner"></div>
<h1 id="message">Waiting for the server to start...</h1>
<script>
    async function poll() {
        try {
            const resp = await fetch('/api/status');
            const status = await resp.json();
            if (status.state === 'Ready' && status.url) {
                window.location = status.url;
                return;
            }
            if (status.state === 'Failed') {
                document.getElementById('spinner').style.display = 'none';
                const msg = document.getElementById('message');
                msg.className = 'error';
                msg.textContent = 'Failed to start the server: ' + status.failure;
                return;
            }
        } catch (e) {
            // Shell still starting; keep polling.
        }
        setTimeout(poll, 1000);
    }
    poll();
</script>
</body>
</html>
`
