package playerpage

import (
	"errors"
	"fmt"
	"html/template"
	"io"
)

var ErrMissingBridgeURL = errors.New("bridge url is required")

type pageData struct {
	ContainerID string
	APIScript   string
	BridgeURL   string
	Script      template.JS
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0, maximum-scale=1.0, user-scalable=no">
    <style>
        html, body {
            margin: 0;
            padding: 0;
            background-color: #000000;
            overflow: hidden;
            position: fixed;
            height: 100%;
            width: 100%;
            pointer-events: none;
        }
        #{{.ContainerID}} {
            position: relative;
            height: 100%;
            width: 100%;
        }
    </style>
</head>
<body>
    <div id="{{.ContainerID}}"></div>
    <script>
        (function () {
            var queue = [];
            var socket = new WebSocket({{.BridgeURL}});

            window.sendBridge = function (name) {
                var frame = JSON.stringify({
                    type: name,
                    payload: Array.prototype.slice.call(arguments, 1)
                });
                if (socket.readyState === WebSocket.OPEN) {
                    socket.send(frame);
                } else {
                    queue.push(frame);
                }
            };

            socket.onopen = function () {
                while (queue.length > 0) {
                    socket.send(queue.shift());
                }
            };

            socket.onmessage = function (event) {
                var frame = JSON.parse(event.data);
                if (frame.type === 'EVAL') {
                    (0, eval)(frame.payload.script);
                }
            };

            window.addEventListener('load', function () {
                window.sendBridge('LoadStop');
            });
        })();
    </script>
    <script>
{{.Script}}
    </script>
    <script src="{{.APIScript}}" async></script>
</body>
</html>
`))

// Render writes the self-contained player document.
func Render(w io.Writer, opts Options) error {
	if opts.BridgeURL == "" {
		return ErrMissingBridgeURL
	}

	script, err := Script(opts)
	if err != nil {
		return err
	}

	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	if err := pageTemplate.Execute(w, pageData{
		ContainerID: ContainerID,
		APIScript:   base + "/iframe_api",
		BridgeURL:   opts.BridgeURL,
		Script:      template.JS(script),
	}); err != nil {
		return fmt.Errorf("failed to execute page template: %w", err)
	}

	return nil
}
