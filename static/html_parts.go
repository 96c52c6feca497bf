package static

// Page fragments of the viewer. The form and the chart go between Part1 and
// Part2, the build log between Part2 and Part3.
var (
	Part1 = `
    <!DOCTYPE html>
    <html>
    <head>
        <title>Trapezoidal map</title>
		<style>
			body {
				background-color: #1F1F1F;
				color: #d3d3d3;
				font-family: Consolas, monospace;
				overflow: hidden;
			}

			#container {
				display: flex;
				width: 100%;
				height: 100vh;
				box-sizing: border-box;
			}

			#left-container {
				width: 60%;
				padding: 10px;
				box-sizing: border-box;
				overflow-y: auto;
			}

			#right-container {
				width: 40%;
				padding: 10px;
				box-sizing: border-box;
				border-left: 5px solid #757575;
				overflow-y: auto;
				overflow-x: auto;
				background-color: #1e1e1e;
			}

			#logs {
				white-space: pre-wrap;
				word-wrap: break-word;
				color: #d3d3d3;
				font-family: Consolas, monospace;
			}

			#result {
				color: #9cdcfe;
				margin: 8px 0;
			}

			input[type="number"],
			input[type="submit"],
			select {
				background-color: #2b2b2b;
				color: #d3d3d3;
				border: 1px solid #444;
				padding: 5px;
				margin: 5px 0;
				border-radius: 4px;
			}

			label, h1, a {
				color: #d3d3d3;
			}

			input[type="submit"]:hover {
				background-color: #444;
				cursor: pointer;
			}

			::-webkit-scrollbar {
				width: 8px;
			}

			::-webkit-scrollbar-thumb {
				background-color: #444;
				border-radius: 10px;
			}

			::-webkit-scrollbar-track {
				background-color: #2b2b2b;
			}
        </style>
    </head>
    <body>
        <div id="container">
            <div id="left-container">
                <h1>Trapezoidal map</h1>
    `

	// Form takes the generator options, size, seed, x and y.
	Form = `
                <form id="scene-form" method="POST">
                    <label for="generator">Generator:</label>
                    <select id="generator" name="generator">%s</select>
                    <label for="size">Size:</label>
                    <input type="number" id="size" name="size" value="%d" min="1" max="500">
                    <label for="seed">Seed:</label>
                    <input type="number" id="seed" name="seed" value="%d"><br>
                    <label for="x">Query x:</label>
                    <input type="number" id="x" name="x" value="%s" step="any">
                    <label for="y">Query y:</label>
                    <input type="number" id="y" name="y" value="%s" step="any">
                    <input type="submit" value="Build">
                </form>
    `

	Part2 = `
                <a href="/dag.svg" target="_blank">search graph (svg)</a>
            </div>
            <div id="right-container">
                <h1>Log</h1>
                <div id="logs">`

	Part3 = `
                </div>
            </div>
        </div>

        <script>
            document.getElementById('scene-form').addEventListener('submit', function (e) {
                e.preventDefault();
                const formData = new FormData(this);
                const params = new URLSearchParams(formData).toString();

                fetch('/', {
                    method: 'POST',
                    body: params,
                    headers: {
                        'Content-Type': 'application/x-www-form-urlencoded'
                    }
                })
                .then(response => response.text())
                .then(html => {
                    document.open();
                    document.write(html);
                    document.close();
                })
                .catch(error => {
                    console.error('build failed:', error);
                });
            });
        </script>
    </body>
    </html>
    `
)
